package image

import "errors"

var (
	// ErrBadSize indicates the file is not exactly one superblock plus one heap.
	ErrBadSize = errors.New("image: wrong file size")

	// ErrBadMagic indicates the file does not start with the heap image signature.
	ErrBadMagic = errors.New("image: bad signature")

	// ErrBadVersion indicates the image was written with an unsupported format version.
	ErrBadVersion = errors.New("image: unsupported version")

	// ErrBadGeometry indicates the image was written by a build with different
	// heap geometry, or carries flags this build does not understand.
	ErrBadGeometry = errors.New("image: geometry mismatch")

	// ErrBadUUID indicates a missing identity or disagreeing identity copies.
	ErrBadUUID = errors.New("image: bad identity")

	// ErrBadChecksum indicates the superblock failed its integrity check.
	ErrBadChecksum = errors.New("image: superblock checksum mismatch")
)
