//go:build !windows

package fs

// IsHidden reports dotfiles as hidden.
func IsHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}
