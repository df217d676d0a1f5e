package syncedmem

// Converter materializes private-layout bytes into host layout.
//
// The private backend supplies the converter together with an opaque
// descriptor; SyncedBuffer passes the descriptor through untouched.
// Convert must fill all of host. An error is treated as a copy failure.
type Converter interface {
	Convert(private, host []byte, descriptor any) error
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(private, host []byte, descriptor any) error

// Convert calls f.
func (f ConverterFunc) Convert(private, host []byte, descriptor any) error {
	return f(private, host, descriptor)
}
