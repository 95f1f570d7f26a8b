//go:build !linux

package fileutil

func renameNoReplace(string, string) error {
	return errNoReplaceUnsupported
}
