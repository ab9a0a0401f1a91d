package robot

// Xbox controller axis indices as reported by the driver station.
const (
	xboxLeftX  = 0
	xboxLeftY  = 1
	xboxRightX = 4
	xboxRightY = 5
)

// JoystickSource provides controller state by port.
type JoystickSource interface {
	Joystick(port int) Joystick
}

// XboxController reads stick axes from one driver station port.
type XboxController struct {
	port int
	src  JoystickSource
}

func NewXboxController(port int, src JoystickSource) *XboxController {
	return &XboxController{port: port, src: src}
}

func (c *XboxController) Port() int { return c.port }

func (c *XboxController) LeftX() float64  { return c.axis(xboxLeftX) }
func (c *XboxController) LeftY() float64  { return c.axis(xboxLeftY) }
func (c *XboxController) RightX() float64 { return c.axis(xboxRightX) }
func (c *XboxController) RightY() float64 { return c.axis(xboxRightY) }

func (c *XboxController) axis(i int) float64 {
	return c.src.Joystick(c.port).Axis(i)
}
