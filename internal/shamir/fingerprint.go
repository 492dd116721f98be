package shamir

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Fingerprint returns the 0x-prefixed Keccak-256 of the secret's sign byte
// followed by its big-endian magnitude. Records and notifications carry the
// fingerprint instead of the secret.
func Fingerprint(secret *big.Int) string {
	sign := byte(0)
	if secret.Sign() < 0 {
		sign = 1
	}
	return hexutil.Encode(crypto.Keccak256([]byte{sign}, secret.Bytes()))
}

// Hex renders the secret as 0x-prefixed hex ("-0x..." when negative)
func Hex(secret *big.Int) string {
	return hexutil.EncodeBig(secret)
}
