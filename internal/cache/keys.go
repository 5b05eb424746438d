package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

type KeyGenerator struct {
	Prefix string
}

// NewKeyGenerator creates a new key generator with the given prefix
func NewKeyGenerator(prefix string) *KeyGenerator {
	if prefix == "" {
		prefix = "ont"
	}
	return &KeyGenerator{Prefix: prefix}
}

// ImportKey identifies an imported report by its content CRC
func (kg *KeyGenerator) ImportKey(crc uint32) string {
	return fmt.Sprintf("%s:import:%08x", kg.Prefix, crc)
}

// FileKey identifies a report file by its path
func (kg *KeyGenerator) FileKey(path string) string {
	hash := md5.Sum([]byte(path))
	return fmt.Sprintf("%s:file:%s", kg.Prefix, hex.EncodeToString(hash[:8]))
}

// OLTLatestKey tracks the most recent import for one OLT
func (kg *KeyGenerator) OLTLatestKey(oltName string) string {
	return fmt.Sprintf("%s:olt:%s:latest", kg.Prefix, oltName)
}
