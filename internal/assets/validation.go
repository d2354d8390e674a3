package assets

import "fmt"

// maxAssetNameLength bounds lookup names well above the longest shipped
// asset ("watermark-guard") while rejecting pathological input.
const maxAssetNameLength = 64

// ValidateAssetName checks that a lookup name matches the asset naming
// grammar: lowercase letters, digits, hyphens, and underscores. Names
// are used as filename stems, so dots and path separators are invalid
// by construction rather than by blacklist.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAssetName, maxAssetNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
