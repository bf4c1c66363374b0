// internal/app/system/spreadsheet/limits.go
package spreadsheet

// Upload size and row limits for import file processing.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)
