// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sign

import (
	"crypto/sha1"
	"testing"

	"github.com/armaforge/armaforge/pbo"
)

func testPBO() *pbo.PBO {
	p, _ := pbo.Read((&pboBuilder{}).
		add("script.sqf", []byte("hint \"hi\";")).
		add("data\\texture.paa", []byte{0xAA, 0xBB}).
		withPrefix(`x\ace_frag`).
		build())
	return p
}

// pboBuilder is a tiny local helper for constructing a pbo.PBO without
// exporting a constructor from the pbo package just for tests.
type pboBuilder struct {
	files  map[string][]byte
	order  []string
	prefix string
}

func (b *pboBuilder) add(name string, data []byte) *pboBuilder {
	if b.files == nil {
		b.files = map[string][]byte{}
	}
	b.files[name] = data
	b.order = append(b.order, name)
	return b
}

func (b *pboBuilder) withPrefix(p string) *pboBuilder {
	b.prefix = p
	return b
}

func (b *pboBuilder) build() []byte {
	// Round-trip through a fresh in-package PBO isn't possible from here
	// without exporting a constructor, so build the bytes using pbo.Read's
	// own counterpart by writing via the package's public surface: we
	// construct a throwaway PBO value using pbo's own zero-value-friendly
	// fields (Extensions/Names/Files are exported).
	p := &pbo.PBO{Extensions: map[string]string{"prefix": b.prefix}, Files: map[string][]byte{}}
	for _, name := range b.order {
		p.Add(name, b.files[name])
	}
	return p.Write()
}

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := GenerateKeyPair("ace_frag")
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	p := testPBO()

	for _, v := range []Version{V2, V3} {
		sig, err := Sign(priv, p, v)
		if err != nil {
			t.Fatalf("Sign(%d): %v", v, err)
		}
		if err := Verify(priv.Public(), p, sig); err != nil {
			t.Errorf("Verify(%d): %v", v, err)
		}
	}
}

func TestVerifyRejectsBitFlip(t *testing.T) {
	priv, err := GenerateKeyPair("ace_frag")
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	p := testPBO()
	sig, err := Sign(priv, p, V3)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	flipped := &pbo.PBO{Extensions: p.Extensions, Files: map[string][]byte{}}
	for _, name := range p.Names {
		body := append([]byte(nil), p.Files[name]...)
		if name == "script.sqf" && len(body) > 0 {
			body[0] ^= 0x01
		}
		flipped.Add(name, body)
	}
	flipped.Checksum = p.Checksum // checksum intentionally stale: exercises the file-hash path

	if err := Verify(priv.Public(), flipped, sig); err == nil {
		t.Error("Verify: want error after flipping a payload bit, got nil")
	}
}

func TestKeyCodecRoundTrip(t *testing.T) {
	priv, err := GenerateKeyPair("ace_frag")
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	data := EncodePrivate(priv)
	got, err := DecodePrivate(data)
	if err != nil {
		t.Fatalf("DecodePrivate: %v", err)
	}
	if got.N.Cmp(priv.N) != 0 || got.D.Cmp(priv.D) != 0 {
		t.Error("decoded private key does not match original")
	}

	pubData := EncodePublic(priv.Public())
	gotPub, err := DecodePublic(pubData)
	if err != nil {
		t.Fatalf("DecodePublic: %v", err)
	}
	if gotPub.N.Cmp(priv.N) != 0 || gotPub.E != priv.E {
		t.Error("decoded public key does not match original")
	}
}

func TestSignCodecRoundTrip(t *testing.T) {
	priv, err := GenerateKeyPair("ace_frag")
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	p := testPBO()
	sig, err := Sign(priv, p, V3)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	data := EncodeSign(sig)
	got, err := DecodeSign(data)
	if err != nil {
		t.Fatalf("DecodeSign: %v", err)
	}
	if got.Sig1.Cmp(sig.Sig1) != 0 || got.Sig2.Cmp(sig.Sig2) != 0 || got.Sig3.Cmp(sig.Sig3) != 0 {
		t.Error("decoded signature does not match original")
	}
	if err := Verify(priv.Public(), p, got); err != nil {
		t.Errorf("Verify(decoded signature): %v", err)
	}
}

func TestV3FileHashFallsBackToGnihton(t *testing.T) {
	p := &pbo.PBO{Extensions: map[string]string{}, Files: map[string][]byte{}}
	p.Add("foo.paa", []byte{0x01, 0x02, 0x03})
	want := sha1.Sum([]byte("gnihton"))
	if got := fileHash(p, V3); got != want {
		t.Errorf("fileHash = % x, want % x", got, want)
	}
}
