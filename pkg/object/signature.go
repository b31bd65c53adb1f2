package object

import (
	"fmt"
	"strings"
)

// CommitSigner produces an armored signature over a commit payload.
type CommitSigner func(payload []byte) (string, error)

// CommitSigningPayload returns the canonical bytes that are signed for a
// commit. The payload excludes the gpgsig header itself.
func CommitSigningPayload(c *Commit) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("signing payload: nil commit")
	}
	unsigned := *c
	unsigned.GPGSig = ""
	return MarshalCommit(&unsigned)
}

// SignCommit signs c with signer and stores the result in c.GPGSig.
func SignCommit(c *Commit, signer CommitSigner) error {
	if signer == nil {
		return nil
	}
	payload, err := CommitSigningPayload(c)
	if err != nil {
		return err
	}
	sig, err := signer(payload)
	if err != nil {
		return fmt.Errorf("sign commit: %w", err)
	}
	if strings.TrimSpace(sig) == "" {
		return fmt.Errorf("sign commit: signer returned an empty signature")
	}
	c.GPGSig = sig
	return nil
}
