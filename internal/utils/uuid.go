// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// seedNamespace scopes deterministic ids of seeded records.
var seedNamespace = uuid.MustParse("6f1c0a0e-5b7d-4a55-9a0e-3c8f6f3f8b21")

type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered v7 id, falling back to v4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// SeedID returns a v5 id derived from parts. The same parts always yield the
// same id, so re-seeding the same record upserts instead of duplicating it.
func SeedID(parts ...string) string {
	name := ""
	for i, p := range parts {
		if i > 0 {
			name += "/"
		}
		name += p
	}
	return uuid.NewSHA1(seedNamespace, []byte(name)).String()
}
