// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sign

import (
	"crypto/sha1"
	"math/big"
	"sort"
	"strings"

	"github.com/armaforge/armaforge/pbo"
)

// Version selects which extension filter the file hash applies.
type Version int

const (
	V2 Version = 2
	V3 Version = 3
)

var v2Exclude = splitSet("paa jpg p3d tga rvmat lip ogg wss png rtm pac fxy wrp")
var v3Include = splitSet("sqf inc bikb ext fsm sqm hpp cfg sqs h")

func splitSet(s string) map[string]bool {
	m := map[string]bool{}
	for _, ext := range strings.Fields(s) {
		m[ext] = true
	}
	return m
}

// nameHash sorts (lowercase_name, bytes) pairs by name and hashes the
// concatenated lowercase names of every file whose bytes are non-empty.
func nameHash(p *pbo.PBO) [20]byte {
	names := append([]string(nil), p.Names...)
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
	var buf []byte
	for _, name := range names {
		if len(p.Files[name]) == 0 {
			continue
		}
		buf = append(buf, []byte(strings.ToLower(name))...)
	}
	return sha1.Sum(buf)
}

// fileHash iterates files in stored (archive) order, concatenating the
// bytes of those whose extension passes version's filter.
func fileHash(p *pbo.PBO, version Version) [20]byte {
	var buf []byte
	any := false
	for _, name := range p.SortedNames() {
		ext := extOf(name)
		included := false
		switch version {
		case V2:
			included = !v2Exclude[ext]
		case V3:
			included = v3Include[ext]
		}
		if !included {
			continue
		}
		buf = append(buf, p.Files[name]...)
		if len(p.Files[name]) > 0 {
			any = true
		}
	}
	if !any {
		switch version {
		case V2:
			return sha1.Sum([]byte("nothing"))
		case V3:
			return sha1.Sum([]byte("gnihton"))
		}
	}
	return sha1.Sum(buf)
}

func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// prefixWithTrailingBackslash returns ext["prefix"] with a trailing
// backslash appended if missing, or "" if there is no prefix.
func prefixWithTrailingBackslash(p *pbo.PBO) string {
	prefix, ok := p.Extensions["prefix"]
	if !ok || prefix == "" {
		return ""
	}
	if strings.HasSuffix(prefix, `\`) {
		return prefix
	}
	return prefix + `\`
}

// sha1AlgID is the DER-encoded SHA-1 AlgorithmIdentifier PKCS#1 v1.5
// padding wraps around the raw digest.
var sha1AlgID = []byte{0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2B, 0x0E, 0x03, 0x02, 0x1A, 0x05, 0x00, 0x04, 0x14}

// pad emulates PKCS#1 v1.5 signature padding for a raw SHA-1 digest,
// producing a big-endian integer exactly keyBytes long.
func pad(digest [20]byte, keyBytes int) *big.Int {
	buf := make([]byte, 0, keyBytes)
	buf = append(buf, 0x00, 0x01)
	ffCount := keyBytes - 2 - 1 - len(sha1AlgID) - 20
	for i := 0; i < ffCount; i++ {
		buf = append(buf, 0xFF)
	}
	buf = append(buf, 0x00)
	buf = append(buf, sha1AlgID...)
	buf = append(buf, digest[:]...)
	return new(big.Int).SetBytes(buf)
}
