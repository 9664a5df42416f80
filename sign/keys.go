// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sign implements Bohemia Interactive's detached PBO signature
// scheme: name-hash/file-hash computation over a PBO's contents,
// PKCS#1-v1.5-style SHA-1 padding, and the BIPrivateKey/BIPublicKey/BISign
// binary codecs used to store 1024-bit RSA keys and signatures.
//
// The little-endian field codec style is grounded on perffile/bufdecoder.go
// (biio, generalized from perf.data's records to key/signature fields);
// the big-integer conversions route through biio.LEToBig/BigToLE.
package sign

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/warn"
)

// BitLength is the fixed RSA modulus size used for game compatibility.
const BitLength = 1024

const publicExponent = 65537

var privateMagic1 = [8]byte{0x07, 0x02, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00}
var publicMagic1 = [8]byte{0x06, 0x02, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00}

const privateMagic2 = "RSA2"
const publicMagic2 = "RSA1"

// BIPublicKey is a 1024-bit RSA public key in Bohemia's on-disk layout.
type BIPublicKey struct {
	Name string
	N    *big.Int // modulus
	E    uint32   // exponent, always 65537
}

// BIPrivateKey is a 1024-bit RSA private key, storing the CRT parameters
// the on-disk format requires in addition to d.
type BIPrivateKey struct {
	Name string
	N    *big.Int
	E    uint32
	P, Q *big.Int
	Dmp1 *big.Int // d mod (p-1)
	Dmq1 *big.Int // d mod (q-1)
	Iqmp *big.Int // q^-1 mod p
	D    *big.Int
}

func modBytes() int  { return BitLength / 8 }
func halfBytes() int { return BitLength / 16 }

// Public returns the public half of k.
func (k *BIPrivateKey) Public() *BIPublicKey {
	return &BIPublicKey{Name: k.Name, N: k.N, E: k.E}
}

// GenerateKeyPair generates a fresh BitLength-bit RSA keypair,
// normalizing P > Q to match the CRT convention the format expects for Iqmp.
func GenerateKeyPair(name string) (*BIPrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, BitLength)
	if err != nil {
		return nil, warn.Wrap(warn.KindKeyFormat, "generating key", err)
	}
	if len(key.Primes) != 2 {
		return nil, warn.Wrap(warn.KindKeyFormat, "generating key", fmt.Errorf("expected 2 primes, got %d", len(key.Primes)))
	}
	p, q := key.Primes[0], key.Primes[1]
	if p.Cmp(q) < 0 {
		p, q = q, p
	}
	one := big.NewInt(1)
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	d := key.D
	dmp1 := new(big.Int).Mod(d, pMinus1)
	dmq1 := new(big.Int).Mod(d, qMinus1)
	iqmp := new(big.Int).ModInverse(q, p)
	if iqmp == nil {
		return nil, warn.Wrap(warn.KindKeyFormat, "generating key", fmt.Errorf("q has no inverse mod p"))
	}
	return &BIPrivateKey{
		Name: name,
		N:    key.N,
		E:    publicExponent,
		P:    p, Q: q,
		Dmp1: dmp1, Dmq1: dmq1, Iqmp: iqmp,
		D: d,
	}, nil
}

// EncodePrivate serialises k in the BIPrivateKey layout.
func EncodePrivate(k *BIPrivateKey) []byte {
	w := biio.NewWriter()
	w.CString(k.Name)
	headerLen := 9*halfBytes() + 20
	w.U32LE(uint32(headerLen))
	w.Raw(privateMagic1[:])
	w.Raw([]byte(privateMagic2))
	w.U32LE(BitLength)
	w.U32LE(k.E)
	w.Raw(biio.BigToLE(k.N, modBytes()))
	w.Raw(biio.BigToLE(k.P, halfBytes()))
	w.Raw(biio.BigToLE(k.Q, halfBytes()))
	w.Raw(biio.BigToLE(k.Dmp1, halfBytes()))
	w.Raw(biio.BigToLE(k.Dmq1, halfBytes()))
	w.Raw(biio.BigToLE(k.Iqmp, halfBytes()))
	w.Raw(biio.BigToLE(k.D, modBytes()))
	return w.Bytes()
}

// DecodePrivate parses a BIPrivateKey from its on-disk layout.
func DecodePrivate(data []byte) (*BIPrivateKey, error) {
	r := biio.NewReader(data)
	name := r.CString()
	r.Skip(4) // header_len, not needed to parse the rest
	r.Skip(8) // magic_1
	r.Skip(4) // magic_2
	r.Skip(4) // length (always BitLength)
	e := r.U32LE()
	n := biio.LEToBig(r.Bytes(modBytes()))
	p := biio.LEToBig(r.Bytes(halfBytes()))
	q := biio.LEToBig(r.Bytes(halfBytes()))
	dmp1 := biio.LEToBig(r.Bytes(halfBytes()))
	dmq1 := biio.LEToBig(r.Bytes(halfBytes()))
	iqmp := biio.LEToBig(r.Bytes(halfBytes()))
	d := biio.LEToBig(r.Bytes(modBytes()))
	if err := r.Err(); err != nil {
		return nil, warn.Wrap(warn.KindKeyFormat, "reading private key", err)
	}
	return &BIPrivateKey{Name: name, N: n, E: e, P: p, Q: q, Dmp1: dmp1, Dmq1: dmq1, Iqmp: iqmp, D: d}, nil
}

// EncodePublic serialises k in the BIPublicKey layout.
func EncodePublic(k *BIPublicKey) []byte {
	w := biio.NewWriter()
	w.CString(k.Name)
	headerLen := modBytes() + 20
	w.U32LE(uint32(headerLen))
	w.Raw(publicMagic1[:])
	w.Raw([]byte(publicMagic2))
	w.U32LE(BitLength)
	w.U32LE(k.E)
	w.Raw(biio.BigToLE(k.N, modBytes()))
	return w.Bytes()
}

// DecodePublic parses a BIPublicKey from its on-disk layout.
func DecodePublic(data []byte) (*BIPublicKey, error) {
	r := biio.NewReader(data)
	name := r.CString()
	r.Skip(4)
	r.Skip(8)
	r.Skip(4)
	r.Skip(4)
	e := r.U32LE()
	n := biio.LEToBig(r.Bytes(modBytes()))
	if err := r.Err(); err != nil {
		return nil, warn.Wrap(warn.KindKeyFormat, "reading public key", err)
	}
	return &BIPublicKey{Name: name, N: n, E: e}, nil
}
