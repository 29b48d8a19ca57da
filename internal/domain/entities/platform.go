package entities

// Platform identifies the source meeting platform of a record.
type Platform string

const (
	PlatformGong Platform = "gong"
	PlatformZoom Platform = "zoom"
)

// IsValid reports whether the platform is one of the supported sources.
func (p Platform) IsValid() bool {
	return p == PlatformGong || p == PlatformZoom
}

func (p Platform) String() string {
	return string(p)
}

// ParsePlatform converts user input into a Platform, returning false for
// anything outside the supported set.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	return p, p.IsValid()
}
