package idserver

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// Generator produces sortable unique identifiers.
type Generator interface {
	NewID() (string, error)
}

type GeneratorFunc func() (string, error)

func (f GeneratorFunc) NewID() (string, error) { return f() }

type KSUIDGenerator struct{}

func (KSUIDGenerator) NewID() (string, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type UUIDv7Generator struct{}

func (UUIDv7Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func GeneratorByName(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ksuid":
		return KSUIDGenerator{}, nil
	case "uuidv7", "uuid":
		return UUIDv7Generator{}, nil
	default:
		return nil, fmt.Errorf("idserver: unknown generator %q", name)
	}
}
