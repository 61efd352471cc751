//go:build !linux

package screen

// System returns the platform wake lock, or nil when none is reachable.
func System() WakeLock {
	return nil
}
