package ili9488

// Commands.
const (
	SWRESET  = 0x01
	SLPOUT   = 0x11
	INVOFF   = 0x20
	INVON    = 0x21
	DISPOFF  = 0x28
	DISPON   = 0x29
	CASET    = 0x2A
	PASET    = 0x2B
	RAMWR    = 0x2C
	MADCTL   = 0x36
	COLMOD   = 0x3A
	FRMCTRL1 = 0xB1
	INVCTRL  = 0xB4
	DISCTRL  = 0xB6
	PWCTRL1  = 0xC0
	PWCTRL2  = 0xC1
	VMCTRL   = 0xC5
	PGAMCTRL = 0xE0
	NGAMCTRL = 0xE1
	SETIMAGE = 0xE9
	ADJCTRL3 = 0xF7
)

// MADCTL bits.
const (
	MADCTL_MY  = 0x80
	MADCTL_MX  = 0x40
	MADCTL_MV  = 0x20
	MADCTL_ML  = 0x10
	MADCTL_BGR = 0x08
	MADCTL_MH  = 0x04
)

// COLMOD values for the SPI interface.
const (
	colmod16 = 0x55
	colmod18 = 0x66
)
