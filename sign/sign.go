// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sign

import (
	"crypto/sha1"
	"fmt"
	"math/big"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/pbo"
	"github.com/armaforge/armaforge/warn"
)

// BISign is a detached PBO signature: the signer's public key plus the
// three padded-and-signed hashes.
type BISign struct {
	Public  *BIPublicKey
	Version Version
	Sig1    *big.Int
	Sig2    *big.Int
	Sig3    *big.Int
}

func threeHashes(p *pbo.PBO, version Version) (h1, h2, h3 [20]byte) {
	checksum := p.Checksum
	name := nameHash(p)
	file := fileHash(p, version)
	prefix := []byte(prefixWithTrailingBackslash(p))

	h1 = sha1.Sum(checksum[:])

	var buf2 []byte
	buf2 = append(buf2, checksum[:]...)
	buf2 = append(buf2, name[:]...)
	buf2 = append(buf2, prefix...)
	h2 = sha1.Sum(buf2)

	var buf3 []byte
	buf3 = append(buf3, file[:]...)
	buf3 = append(buf3, name[:]...)
	buf3 = append(buf3, prefix...)
	h3 = sha1.Sum(buf3)
	return
}

// Sign produces a detached signature over p using priv, at the given
// protocol version.
func Sign(priv *BIPrivateKey, p *pbo.PBO, version Version) (*BISign, error) {
	h1, h2, h3 := threeHashes(p, version)
	keyBytes := modBytes()

	sig := func(h [20]byte) *big.Int {
		m := pad(h, keyBytes)
		return new(big.Int).Exp(m, priv.D, priv.N)
	}
	return &BISign{
		Public:  priv.Public(),
		Version: version,
		Sig1:    sig(h1),
		Sig2:    sig(h2),
		Sig3:    sig(h3),
	}, nil
}

// Verify checks sig against p under pub, returning an error naming the
// first hash that failed to verify.
func Verify(pub *BIPublicKey, p *pbo.PBO, sig *BISign) error {
	h1, h2, h3 := threeHashes(p, sig.Version)
	keyBytes := modBytes()
	e := big.NewInt(int64(pub.E))

	check := func(name string, h [20]byte, s *big.Int) error {
		want := pad(h, keyBytes)
		got := new(big.Int).Exp(s, e, pub.N)
		if got.Cmp(want) != 0 {
			return warn.Wrap(warn.KindSignatureMismatch, "verify", fmt.Errorf("%s mismatch (common hex prefix %s)", name, commonHexPrefix(got, want)))
		}
		return nil
	}
	if err := check("H1", h1, sig.Sig1); err != nil {
		return err
	}
	if err := check("H2", h2, sig.Sig2); err != nil {
		return err
	}
	if err := check("H3", h3, sig.Sig3); err != nil {
		return err
	}
	return nil
}

func commonHexPrefix(a, b *big.Int) string {
	ah, bh := a.Text(16), b.Text(16)
	n := len(ah)
	if len(bh) < n {
		n = len(bh)
	}
	i := 0
	for i < n && ah[i] == bh[i] {
		i++
	}
	return ah[:i]
}

// EncodeSign serialises sig in the BISign layout.
func EncodeSign(sig *BISign) []byte {
	w := biio.NewWriter()
	w.CString(sig.Public.Name)
	headerLen := modBytes() + 20
	w.U32LE(uint32(headerLen))
	w.Raw(publicMagic1[:])
	w.Raw([]byte(publicMagic2))
	w.U32LE(BitLength)
	w.U32LE(sig.Public.E)
	w.Raw(biio.BigToLE(sig.Public.N, modBytes()))

	w.U32LE(uint32(modBytes()))
	w.Raw(biio.BigToLE(sig.Sig1, modBytes()))
	w.U32LE(uint32(sig.Version))
	w.U32LE(uint32(modBytes()))
	w.Raw(biio.BigToLE(sig.Sig2, modBytes()))
	w.U32LE(uint32(modBytes()))
	w.Raw(biio.BigToLE(sig.Sig3, modBytes()))
	return w.Bytes()
}

// DecodeSign parses a BISign from its on-disk layout.
func DecodeSign(data []byte) (*BISign, error) {
	r := biio.NewReader(data)
	name := r.CString()
	r.Skip(4)
	r.Skip(8)
	r.Skip(4)
	r.Skip(4)
	e := r.U32LE()
	n := biio.LEToBig(r.Bytes(modBytes()))

	r.Skip(4) // L/8 length of sig1
	sig1 := biio.LEToBig(r.Bytes(modBytes()))
	version := Version(r.U32LE())
	r.Skip(4)
	sig2 := biio.LEToBig(r.Bytes(modBytes()))
	r.Skip(4)
	sig3 := biio.LEToBig(r.Bytes(modBytes()))
	if err := r.Err(); err != nil {
		return nil, warn.Wrap(warn.KindKeyFormat, "reading signature", err)
	}
	return &BISign{
		Public:  &BIPublicKey{Name: name, N: n, E: e},
		Version: version,
		Sig1:    sig1,
		Sig2:    sig2,
		Sig3:    sig3,
	}, nil
}
