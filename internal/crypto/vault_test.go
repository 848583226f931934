package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/AlexZinkM/evm-wallet/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestVault_RoundTrip(t *testing.T) {
	v := NewVault(0)
	secret := []byte("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")

	blob, err := v.Encrypt(secret, []byte("Correct#Horse1"))
	require.NoError(t, err)

	got, err := v.Decrypt(blob, []byte("Correct#Horse1"))
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestVault_BlobLayout(t *testing.T) {
	v := NewVault(MinIterations)
	secret := []byte("secret")

	blob, err := v.Encrypt(secret, []byte("pw"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)
	assert.Len(t, raw, saltLen+ivLen+len(secret)+tagLen)
}

func TestVault_FreshSaltAndIV(t *testing.T) {
	v := NewVault(MinIterations)

	a, err := v.Encrypt([]byte("same"), []byte("pw"))
	require.NoError(t, err)
	b, err := v.Encrypt([]byte("same"), []byte("pw"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVault_IterationsFloor(t *testing.T) {
	assert.Equal(t, MinIterations, NewVault(10).Iterations())
	assert.Equal(t, 200_000, NewVault(200_000).Iterations())
}

func TestVault_WrongPasswordAndTamperIndistinguishable(t *testing.T) {
	v := NewVault(MinIterations)
	blob, err := v.Encrypt([]byte("top secret"), []byte("right"))
	require.NoError(t, err)

	_, wrongErr := v.Decrypt(blob, []byte("wrong"))
	require.Error(t, wrongErr)

	raw, _ := base64.StdEncoding.DecodeString(blob)
	raw[len(raw)-1] ^= 0x01
	_, tamperErr := v.Decrypt(base64.StdEncoding.EncodeToString(raw), []byte("right"))
	require.Error(t, tamperErr)

	assert.ErrorIs(t, wrongErr, errs.ErrDecryption)
	assert.ErrorIs(t, tamperErr, errs.ErrDecryption)
	assert.Equal(t, wrongErr.Error(), tamperErr.Error())
}

func TestVault_Errors(t *testing.T) {
	v := NewVault(MinIterations)

	tests := []struct {
		name     string
		run      func() error
		wantKind error
	}{
		{
			name: "empty password on encrypt",
			run: func() error {
				_, err := v.Encrypt([]byte("s"), nil)
				return err
			},
			wantKind: errs.ErrValidation,
		},
		{
			name: "empty secret",
			run: func() error {
				_, err := v.Encrypt(nil, []byte("pw"))
				return err
			},
			wantKind: errs.ErrValidation,
		},
		{
			name: "empty password on decrypt",
			run: func() error {
				_, err := v.Decrypt("AAAA", []byte{})
				return err
			},
			wantKind: errs.ErrValidation,
		},
		{
			name: "not base64",
			run: func() error {
				_, err := v.Decrypt("***not base64***", []byte("pw"))
				return err
			},
			wantKind: errs.ErrFormat,
		},
		{
			name: "too short",
			run: func() error {
				_, err := v.Decrypt(base64.StdEncoding.EncodeToString(make([]byte, 20)), []byte("pw"))
				return err
			},
			wantKind: errs.ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestVault_Reencrypt(t *testing.T) {
	v := NewVault(MinIterations)
	blob, err := v.Encrypt([]byte("mnemonic words"), []byte("old"))
	require.NoError(t, err)

	rekeyed, err := v.Reencrypt(blob, []byte("old"), []byte("new"))
	require.NoError(t, err)

	_, err = v.Decrypt(rekeyed, []byte("old"))
	assert.ErrorIs(t, err, errs.ErrDecryption)

	got, err := v.Decrypt(rekeyed, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, "mnemonic words", string(got))

	_, err = v.Reencrypt(blob, []byte("bad"), []byte("new"))
	assert.ErrorIs(t, err, errs.ErrDecryption)
}

func TestVault_RoundTripProperty(t *testing.T) {
	v := NewVault(MinIterations)

	rapid.Check(t, func(t *rapid.T) {
		secret := rapid.SliceOfN(rapid.Byte(), 1, 128).Draw(t, "secret")
		password := rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "password")

		blob, err := v.Encrypt(secret, password)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		got, err := v.Decrypt(blob, password)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if string(got) != string(secret) {
			t.Fatalf("round trip mismatch")
		}

		wrong := append([]byte{0xff}, password...)
		if _, err := v.Decrypt(blob, wrong); err == nil {
			t.Fatalf("decrypt with wrong password succeeded")
		}
	})
}
