package user

// SetCompareHash swaps the password comparison and returns a restore func.
func SetCompareHash(f func(hashed, password []byte) error) func() {
	prev := compareHash
	compareHash = f
	return func() { compareHash = prev }
}
