package sink

import (
	"fmt"
	"html"
)

// ErrorSVG returns the fixed 400x200 placeholder drawn when a diagram could
// not be produced. msg is XML-escaped.
func ErrorSVG(msg string) []byte {
	return fmt.Appendf(nil, `<svg width='400' height='200' xmlns='http://www.w3.org/2000/svg'>
    <rect width="400" height="200" fill="#f8f9fa"/>
    <text x='200' y='100' text-anchor='middle' font-family='Segoe UI, Arial' font-size='14' fill='#e74c3c'>
        Error generating diagram: %s
    </text>
</svg>`, html.EscapeString(msg))
}
