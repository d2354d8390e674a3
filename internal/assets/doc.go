// Package assets provides the CSS stylesheets and JavaScript snippets
// embedded into generated documents.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in per-format stylesheets (base, print,
// word, ebook, slides) and scripts (slide navigation, watermark guard)
// embedded at compile time.
//
// FilesystemLoader allows users to provide custom assets from a directory,
// with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the exporter. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is
// not found. This enables overriding specific assets while keeping defaults.
//
// # Directory Structure
//
// Assets are organized by type:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # stylesheets (e.g., ebook.css)
//	└── scripts/
//	    └── {name}.js            # scripts (e.g., slides-nav.js)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
