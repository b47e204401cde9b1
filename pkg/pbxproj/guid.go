package pbxproj

import (
	"strings"

	"github.com/google/uuid"
)

// newID returns a fresh identifier in Xcode's object key format:
// 24 uppercase hexadecimal characters.
func newID() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return hex[:24]
}

// nextID returns a fresh identifier that is not yet present in the object table.
func (p *Project) nextID() string {
	for {
		id := newID()
		if _, ok := p.Objects[id]; !ok {
			return id
		}
	}
}
