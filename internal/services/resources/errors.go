package resources

// ResourceError is a custom error type for resource library errors
type ResourceError string

// Error implements the error interface
func (e ResourceError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrUnknownFilter  ResourceError = "unknown resource filter"
	ErrInvalidCatalog ResourceError = "invalid resource catalog"
	ErrNilInput       ResourceError = "input cannot be nil"
)
