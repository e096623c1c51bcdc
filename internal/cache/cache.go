// Package cache implements aether's .aethercache short-circuit: a binary
// image of a prior generation run, keyed by a content hash of the grammar
// source it was produced from, so a rebuild with unchanged lexical.aether
// and syntactic.aether files can skip straight to rewriting the previously
// emitted files instead of re-running the front end.
package cache

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// Sum is the content fingerprint of a grammar's input files.
type Sum [sha256.Size]byte

// SumOf hashes the concatenation of a lexical.aether and syntactic.aether
// source, along with the target language and package, so a cache entry
// never matches a run that would emit different code from the same
// grammar text.
func SumOf(language, pkg string, lexicalSrc, syntacticSrc []byte) Sum {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write([]byte(pkg))
	h.Write([]byte{0})
	h.Write(lexicalSrc)
	h.Write([]byte{0})
	h.Write(syntacticSrc)
	var s Sum
	copy(s[:], h.Sum(nil))
	return s
}

// Image is one cached generation run: the files it produced, and enough of
// the run's identity to decide whether it is still valid for a later
// invocation.
type Image struct {
	RunID    uuid.UUID
	Sum      Sum
	Language string
	Package  string
	Files    map[string][]byte
}

// Load reads and decodes the cache image at path. It returns an error
// wrapping os.ErrNotExist if no cache file exists yet, which callers treat
// as a cache miss rather than a failure.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var img Image
	if _, err := rezi.DecBinary(data, &img); err != nil {
		return nil, fmt.Errorf("decoding cache image: %w", err)
	}
	return &img, nil
}

// Save writes img to path, creating or truncating it.
func Save(path string, img *Image) error {
	data := rezi.EncBinary(img)
	return os.WriteFile(path, data, 0664)
}

func (img Image) MarshalBinary() ([]byte, error) {
	idBytes, err := img.RunID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var data []byte
	data = append(data, encBinaryBytes(idBytes)...)
	data = append(data, encBinaryBytes(img.Sum[:])...)
	data = append(data, encBinaryString(img.Language)...)
	data = append(data, encBinaryString(img.Package)...)
	data = append(data, encBinaryFileMap(img.Files)...)
	return data, nil
}

func (img *Image) UnmarshalBinary(data []byte) error {
	idBytes, n, err := decBinaryBytes(data)
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	data = data[n:]
	if err := img.RunID.UnmarshalBinary(idBytes); err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	sumBytes, n, err := decBinaryBytes(data)
	if err != nil {
		return fmt.Errorf("input sum: %w", err)
	}
	data = data[n:]
	if len(sumBytes) != len(img.Sum) {
		return fmt.Errorf("input sum: want %d bytes, got %d", len(img.Sum), len(sumBytes))
	}
	copy(img.Sum[:], sumBytes)

	img.Language, n, err = decBinaryString(data)
	if err != nil {
		return fmt.Errorf("language: %w", err)
	}
	data = data[n:]

	img.Package, n, err = decBinaryString(data)
	if err != nil {
		return fmt.Errorf("package: %w", err)
	}
	data = data[n:]

	img.Files, _, err = decBinaryFileMap(data)
	if err != nil {
		return fmt.Errorf("files: %w", err)
	}
	return nil
}
