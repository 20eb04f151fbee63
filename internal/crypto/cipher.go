package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

const (
	BlockSize   = aes.BlockSize // 16 bytes
	ScratchSize = 4096          // Bounded output buffer per transform step
)

// bufferResult is what a transform step reports after filling the scratch buffer
type bufferResult int

const (
	// bufferUnderflow means all output has been produced
	bufferUnderflow bufferResult = iota
	// bufferOverflow means the scratch buffer is full and more output is pending
	bufferOverflow
)

// stream is one direction of the CBC transform, consumed step by step
type stream interface {
	step(dst []byte) (int, bufferResult, error)
}

// Encrypt encrypts data with AES-256-CBC and PKCS#7 padding.
// The output is always a whole number of blocks and at least one byte
// longer than data. iv is copied and never modified.
func Encrypt(data, key, iv []byte) ([]byte, error) {
	mode, err := newMode("encrypt", key, iv, cipher.NewCBCEncrypter)
	if err != nil {
		return nil, err
	}

	s := &encryptStream{mode: mode, src: data}
	return drain("encrypt", s, (len(data)/BlockSize+1)*BlockSize)
}

// Decrypt decrypts AES-256-CBC data and removes PKCS#7 padding.
// It fails with ErrInvalidPadding when data is empty, not block aligned,
// or its final block does not carry valid padding.
func Decrypt(data, key, iv []byte) ([]byte, error) {
	mode, err := newMode("decrypt", key, iv, cipher.NewCBCDecrypter)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, newCipherError("decrypt", KindPadding,
			fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d", ErrInvalidPadding, len(data), BlockSize))
	}

	s := &decryptStream{mode: mode, src: data}
	return drain("decrypt", s, len(data))
}

func newMode(op string, key, iv []byte, mk func(cipher.Block, []byte) cipher.BlockMode) (cipher.BlockMode, error) {
	if len(key) != KeySize {
		return nil, newCipherError(op, KindKeySize,
			fmt.Errorf("%w: AES-256 requires a %d-byte key, got %d bytes", ErrInvalidKeySize, KeySize, len(key)))
	}
	if len(iv) != IVSize {
		return nil, newCipherError(op, KindIVSize,
			fmt.Errorf("%w: iv must be %d bytes, got %d", ErrInvalidIVSize, IVSize, len(iv)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newCipherError(op, KindTransform, fmt.Errorf("%w: %v", ErrTransform, err))
	}

	// The mode keeps its own chaining state; copy so the caller's iv stays fixed.
	return mk(block, append([]byte(nil), iv...)), nil
}

// drain runs s until it reports underflow, collecting everything it writes
// into a single fixed scratch buffer.
func drain(op string, s stream, sizeHint int) ([]byte, error) {
	out := make([]byte, 0, sizeHint)
	var scratch [ScratchSize]byte
	defer ClearBytes(scratch[:])

	for {
		n, res, err := s.step(scratch[:])
		if err != nil {
			ClearBytes(out)
			return nil, err
		}
		out = append(out, scratch[:n]...)

		switch res {
		case bufferUnderflow:
			return out, nil
		case bufferOverflow:
			// scratch was full, go again
		default:
			ClearBytes(out)
			return nil, newCipherError(op, KindTransform, fmt.Errorf("%w: unknown step result %d", ErrTransform, res))
		}
	}
}

// encryptStream emits ciphertext blocks followed by a single padded block
type encryptStream struct {
	mode cipher.BlockMode
	src  []byte
	done bool
}

func (s *encryptStream) step(dst []byte) (int, bufferResult, error) {
	n := 0
	for !s.done {
		room := (len(dst) - n) / BlockSize * BlockSize
		if room == 0 {
			return n, bufferOverflow, nil
		}

		if full := len(s.src) / BlockSize * BlockSize; full > 0 {
			k := min(room, full)
			s.mode.CryptBlocks(dst[n:n+k], s.src[:k])
			s.src = s.src[k:]
			n += k
			continue
		}

		// Fewer than BlockSize bytes remain (possibly none): pad and finish.
		var last [BlockSize]byte
		copy(last[:], s.src)
		pad := BlockSize - len(s.src)
		for i := len(s.src); i < BlockSize; i++ {
			last[i] = byte(pad)
		}
		s.mode.CryptBlocks(dst[n:n+BlockSize], last[:])
		ClearBytes(last[:])
		n += BlockSize
		s.src = nil
		s.done = true
	}
	return n, bufferUnderflow, nil
}

// decryptStream holds back the final block until its padding is checked
type decryptStream struct {
	mode  cipher.BlockMode
	src   []byte
	tail  []byte
	final bool
	done  bool
}

func (s *decryptStream) step(dst []byte) (int, bufferResult, error) {
	n := 0
	for !s.done {
		if len(s.src) > BlockSize {
			k := min((len(dst)-n)/BlockSize, (len(s.src)-BlockSize)/BlockSize) * BlockSize
			if k == 0 {
				return n, bufferOverflow, nil
			}
			s.mode.CryptBlocks(dst[n:n+k], s.src[:k])
			s.src = s.src[k:]
			n += k
			continue
		}

		if !s.final {
			last := make([]byte, BlockSize)
			s.mode.CryptBlocks(last, s.src)
			s.src = nil
			s.final = true

			unpadded, err := unpad(last)
			if err != nil {
				ClearBytes(last)
				return n, bufferUnderflow, err
			}
			s.tail = unpadded
		}

		if len(dst)-n < len(s.tail) {
			return n, bufferOverflow, nil
		}
		n += copy(dst[n:], s.tail)
		ClearBytes(s.tail)
		s.tail = nil
		s.done = true
	}
	return n, bufferUnderflow, nil
}

// unpad validates and strips PKCS#7 padding from the final plaintext block
func unpad(block []byte) ([]byte, error) {
	pad := int(block[len(block)-1])
	if pad == 0 || pad > BlockSize {
		return nil, newCipherError("decrypt", KindPadding,
			fmt.Errorf("%w: pad length %d out of range", ErrInvalidPadding, pad))
	}

	want := make([]byte, pad)
	for i := range want {
		want[i] = byte(pad)
	}
	if !ConstantTimeCompare(block[len(block)-pad:], want) {
		return nil, newCipherError("decrypt", KindPadding,
			fmt.Errorf("%w: pad bytes do not match length %d", ErrInvalidPadding, pad))
	}

	return block[:len(block)-pad], nil
}
