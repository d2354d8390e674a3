package assets

// AssetLoader defines the contract for loading CSS styles and JS scripts.
// Implementations may load from embedded assets, the filesystem, or any
// other backing store.
type AssetLoader interface {
	// LoadStyle loads a CSS stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadScript loads a JavaScript asset by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)
}
