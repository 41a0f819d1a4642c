package http

// Asset is a static file served straight from an AssetGateway.
type Asset struct {
	Path     string
	MimeType string
	Data     []byte
}

// AssetGateway serves GET requests under PathPrefix before they reach the
// router. Lookup receives the request path with the prefix removed.
type AssetGateway interface {
	Lookup(relativePath string) (Asset, bool)
	PathPrefix() string
}
