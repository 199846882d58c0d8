package silo

import "fmt"

type UnknownStorageProviderError struct {
	Name string
}

func (r UnknownStorageProviderError) Error() string {
	return fmt.Sprintf("no grain storage provider registered as %q", r.Name)
}

type DuplicateStorageProviderError struct {
	Name string
}

func (r DuplicateStorageProviderError) Error() string {
	return fmt.Sprintf("grain storage provider %q already registered", r.Name)
}
