package main

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gitodb/pkg/object"
	"golang.org/x/crypto/ssh"
)

const (
	sshsigMagic     = "SSHSIG"
	sshsigNamespace = "git"
	sshsigHashAlgo  = "sha512"
	sshsigLineWidth = 70
)

// sshsigSignedData is the blob that is actually signed (PROTOCOL.sshsig).
type sshsigSignedData struct {
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Hash          []byte
}

// sshsigBlob is the serialized signature wrapped in the armor.
type sshsigBlob struct {
	Version       uint32
	PublicKey     []byte
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Signature     []byte
}

func newSSHCommitSigner(keyPath string) (object.CommitSigner, string, error) {
	resolvedPath, err := resolveSigningKeyPath(keyPath)
	if err != nil {
		return nil, "", err
	}

	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("read signing key %q: %w", resolvedPath, err)
	}
	signer, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse signing key %q: %w", resolvedPath, err)
	}
	return sshCommitSigner(signer), resolvedPath, nil
}

// sshCommitSigner returns a CommitSigner producing an armored
// "-----BEGIN SSH SIGNATURE-----" block, the format git verifies with
// gpg.format=ssh.
func sshCommitSigner(signer ssh.Signer) object.CommitSigner {
	return func(payload []byte) (string, error) {
		signed := sshsigMessage(payload)

		var (
			sig *ssh.Signature
			err error
		)
		if as, ok := signer.(ssh.AlgorithmSigner); ok && signer.PublicKey().Type() == ssh.KeyAlgoRSA {
			sig, err = as.SignWithAlgorithm(rand.Reader, signed, ssh.KeyAlgoRSASHA512)
		} else {
			sig, err = signer.Sign(rand.Reader, signed)
		}
		if err != nil {
			return "", err
		}

		blob := append([]byte(sshsigMagic), ssh.Marshal(sshsigBlob{
			Version:       1,
			PublicKey:     signer.PublicKey().Marshal(),
			Namespace:     sshsigNamespace,
			HashAlgorithm: sshsigHashAlgo,
			Signature:     ssh.Marshal(sig),
		})...)
		return armorSSHSig(blob), nil
	}
}

// sshsigMessage builds the bytes the key signs for payload.
func sshsigMessage(payload []byte) []byte {
	sum := sha512.Sum512(payload)
	return append([]byte(sshsigMagic), ssh.Marshal(sshsigSignedData{
		Namespace:     sshsigNamespace,
		HashAlgorithm: sshsigHashAlgo,
		Hash:          sum[:],
	})...)
}

func armorSSHSig(blob []byte) string {
	enc := base64.StdEncoding.EncodeToString(blob)
	var b strings.Builder
	b.WriteString("-----BEGIN SSH SIGNATURE-----\n")
	for len(enc) > sshsigLineWidth {
		b.WriteString(enc[:sshsigLineWidth])
		b.WriteByte('\n')
		enc = enc[sshsigLineWidth:]
	}
	b.WriteString(enc)
	b.WriteString("\n-----END SSH SIGNATURE-----\n")
	return b.String()
}

func resolveSigningKeyPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		expanded, err := expandUserPath(path)
		if err != nil {
			return "", err
		}
		return expanded, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	candidates := []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
	for _, candidate := range candidates {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no default SSH private key found in ~/.ssh (id_ed25519, id_ecdsa, id_rsa)")
}

func expandUserPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
