package validation

import "regexp"

// Field patterns shared by every client application.
var (
	// Starts with a letter, then letters, digits or - . @ _
	UsernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-.@_]*$`)
	PasswordPattern = regexp.MustCompile(`^[a-zA-Z0-9-+,.@_$%&*#!^=/?]*$`)
	// Indian registration plates such as KA01AB1234 or DL04C567.
	VehicleNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{0,2}[0-9]{1,4}$`)
)

var patternTags = map[string]*regexp.Regexp{
	"username":       UsernamePattern,
	"password":       PasswordPattern,
	"vehicle_number": VehicleNumberPattern,
}
