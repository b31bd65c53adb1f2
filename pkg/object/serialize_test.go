package object

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	testHashA = Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testHashB = Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	testHashC = Hash("cccccccccccccccccccccccccccccccccccccccc")
)

func TestEncodeBlob(t *testing.T) {
	got := EncodeBlob([]byte("hello world\n"))
	want := "blob 12\x00hello world\n"
	if string(got) != want {
		t.Errorf("EncodeBlob: got %q, want %q", got, want)
	}

	content, err := DecodeBlob(got)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if string(content) != "hello world\n" {
		t.Errorf("DecodeBlob: got %q", content)
	}
}

func TestDecodeBlobWrongKind(t *testing.T) {
	raw, err := EncodeTree(nil)
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	if _, err := DecodeBlob(raw); !errors.Is(err, ErrWrongKind) {
		t.Errorf("DecodeBlob(tree) error = %v, want ErrWrongKind", err)
	}
}

func TestParseFrameZeroLength(t *testing.T) {
	typ, payload, err := ParseFrame([]byte("blob 0\x00"))
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if typ != TypeBlob || len(payload) != 0 {
		t.Errorf("ParseFrame: got (%q, %q)", typ, payload)
	}
}

func TestParseFrame(t *testing.T) {
	typ, payload, err := ParseFrame([]byte("commit 3\x00abc"))
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if typ != TypeCommit || string(payload) != "abc" {
		t.Errorf("ParseFrame: got (%q, %q)", typ, payload)
	}

	bad := []string{
		"blob 3abc",     // no NUL
		"blob3\x00abc",  // no space
		"blob 4\x00abc", // length mismatch
		"blob x\x00abc", // bad length
		"blob -1\x00",   // negative length
		"blob +2\x00hi", // signed length
		"blob 02\x00hi", // leading zero
		"blob  2\x00hi", // padded length
		"blob \x00",     // empty length
		"tag 3\x00abc",  // unsupported kind
		"\x00",          // empty header
	}
	for _, in := range bad {
		if _, _, err := ParseFrame([]byte(in)); !errors.Is(err, ErrCorruptObject) {
			t.Errorf("ParseFrame(%q) error = %v, want ErrCorruptObject", in, err)
		}
	}
}

func TestTreeEntriesRoundTrip(t *testing.T) {
	entries := []TreeEntry{
		{Mode: ModeFile, Name: "README.md", Hash: testHashA},
		{Mode: ModeExecutable, Name: "build.sh", Hash: testHashB},
		{Mode: ModeDir, Name: "pkg", Hash: testHashC},
		{Mode: ModeSymlink, Name: "zlink", Hash: testHashA},
	}
	payload, err := EncodeTreeEntries(entries)
	if err != nil {
		t.Fatalf("EncodeTreeEntries: %v", err)
	}
	got, err := DecodeTreeEntries(payload)
	if err != nil {
		t.Fatalf("DecodeTreeEntries: %v", err)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("tree entries round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeEntryEncoding(t *testing.T) {
	payload, err := EncodeTreeEntries([]TreeEntry{{Mode: ModeFile, Name: "foo.txt", Hash: testHashA}})
	if err != nil {
		t.Fatalf("EncodeTreeEntries: %v", err)
	}
	want := append([]byte("100644 foo.txt\x00"), bytes.Repeat([]byte{0xaa}, 20)...)
	if !bytes.Equal(payload, want) {
		t.Errorf("encoding: got %q, want %q", payload, want)
	}

	raw, err := EncodeTree([]TreeEntry{{Mode: ModeFile, Name: "foo.txt", Hash: testHashA}})
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("tree 35\x00")) {
		t.Errorf("EncodeTree header: got %q", raw[:8])
	}
}

func TestEncodeTreeSortsByteOrder(t *testing.T) {
	entries := []TreeEntry{
		{Mode: ModeFile, Name: "b", Hash: testHashA},
		{Mode: ModeFile, Name: "ab", Hash: testHashB},
		{Mode: ModeFile, Name: "a", Hash: testHashC},
		{Mode: ModeFile, Name: "B", Hash: testHashC},
	}
	payload, err := EncodeTreeEntries(entries)
	if err != nil {
		t.Fatalf("EncodeTreeEntries: %v", err)
	}
	got, err := DecodeTreeEntries(payload)
	if err != nil {
		t.Fatalf("DecodeTreeEntries: %v", err)
	}
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"B", "a", "ab", "b"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	// Input must not be reordered.
	if entries[0].Name != "b" {
		t.Error("EncodeTreeEntries modified its input")
	}
}

func TestEmptyTreeHash(t *testing.T) {
	raw, err := EncodeTree(nil)
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	if got := HashBytes(raw); got != "4b825dc642cb6eb9a060e54bf8d69288fbee4904" {
		t.Errorf("empty tree hash = %s", got)
	}
}

func TestEncodeTreeRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []TreeEntry
		wantErr error
	}{
		{"empty name", []TreeEntry{{Mode: ModeFile, Name: "", Hash: testHashA}}, ErrMalformedTree},
		{"NUL in name", []TreeEntry{{Mode: ModeFile, Name: "a\x00b", Hash: testHashA}}, ErrMalformedTree},
		{"no mode", []TreeEntry{{Name: "a", Hash: testHashA}}, ErrMalformedTree},
		{"non-octal mode", []TreeEntry{{Mode: "10064x", Name: "a", Hash: testHashA}}, ErrMalformedTree},
		{"duplicate", []TreeEntry{
			{Mode: ModeFile, Name: "a", Hash: testHashA},
			{Mode: ModeFile, Name: "a", Hash: testHashB},
		}, ErrMalformedTree},
		{"bad hash", []TreeEntry{{Mode: ModeFile, Name: "a", Hash: "abc"}}, ErrInvalidDigest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := EncodeTreeEntries(tc.entries); !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeTreeEntriesMalformed(t *testing.T) {
	digest := string(bytes.Repeat([]byte{0x11}, 20))
	bad := map[string]string{
		"missing space":    "100644foo\x00" + digest,
		"missing NUL":      "100644 foo" + digest,
		"truncated digest": "100644 foo\x00" + digest[:19],
		"empty mode":       " foo\x00" + digest,
		"trailing garbage": "100644 foo\x00" + digest + "40000",
	}
	for name, payload := range bad {
		if _, err := DecodeTreeEntries([]byte(payload)); !errors.Is(err, ErrMalformedTree) {
			t.Errorf("%s: error = %v, want ErrMalformedTree", name, err)
		}
	}
}

func TestDecodeTreeRequiresTreeHeader(t *testing.T) {
	if _, err := DecodeTree(EncodeBlob([]byte("x"))); !errors.Is(err, ErrNotATree) {
		t.Errorf("DecodeTree(blob) error = %v, want ErrNotATree", err)
	}
	if _, err := DecodeTree([]byte("no header at all")); !errors.Is(err, ErrNotATree) {
		t.Errorf("DecodeTree(headerless) error = %v, want ErrNotATree", err)
	}

	raw, err := EncodeTree([]TreeEntry{
		{Mode: ModeFile, Name: "bar", Hash: testHashA},
		{Mode: ModeDir, Name: "foo", Hash: testHashB},
	})
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}
	entries, err := DecodeTree(raw)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "bar" || entries[1].Name != "foo" {
		t.Errorf("DecodeTree entries = %+v", entries)
	}
}

func testCommit() *Commit {
	ident := Signature{Name: "John Doe", Email: "john@example.com", When: 1234567890, Zone: "+0000"}
	return &Commit{
		Tree:      testHashA,
		Parents:   []Hash{testHashB},
		Author:    ident,
		Committer: ident,
		Message:   "initial",
	}
}

func TestMarshalCommitLayout(t *testing.T) {
	payload, err := MarshalCommit(testCommit())
	if err != nil {
		t.Fatalf("MarshalCommit: %v", err)
	}
	want := "tree " + string(testHashA) + "\n" +
		"parent " + string(testHashB) + "\n" +
		"author John Doe <john@example.com> 1234567890 +0000\n" +
		"committer John Doe <john@example.com> 1234567890 +0000\n" +
		"\n" +
		"initial\n"
	if string(payload) != want {
		t.Errorf("commit payload:\ngot  %q\nwant %q", payload, want)
	}

	counts := map[string]int{}
	for _, line := range strings.Split(string(payload), "\n") {
		key, _, _ := strings.Cut(line, " ")
		counts[key]++
	}
	for _, key := range []string{"tree", "parent", "author", "committer"} {
		if counts[key] != 1 {
			t.Errorf("%s lines = %d, want 1", key, counts[key])
		}
	}

	raw, err := EncodeCommit(testCommit())
	if err != nil {
		t.Fatalf("EncodeCommit: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("commit ")) {
		t.Errorf("EncodeCommit header: got %q", raw[:10])
	}
}

func TestMarshalCommitInvalidDigest(t *testing.T) {
	c := testCommit()
	c.Tree = "not-a-sha"
	if _, err := EncodeCommit(c); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("bad tree: error = %v, want ErrInvalidDigest", err)
	}

	c = testCommit()
	c.Parents = []Hash{"1234"}
	if _, err := EncodeCommit(c); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("bad parent: error = %v, want ErrInvalidDigest", err)
	}
}

func TestCommitRoundTrip(t *testing.T) {
	orig := testCommit()
	orig.Parents = append(orig.Parents, testHashC)
	orig.Message = "subject\n\nbody line"
	orig.GPGSig = "-----BEGIN SSH SIGNATURE-----\nAAAA\n-----END SSH SIGNATURE-----\n"

	raw, err := EncodeCommit(orig)
	if err != nil {
		t.Fatalf("EncodeCommit: %v", err)
	}
	if !bytes.Contains(raw, []byte("\ngpgsig -----BEGIN SSH SIGNATURE-----\n AAAA\n -----END SSH SIGNATURE-----\n\n")) {
		t.Errorf("gpgsig header not encoded as continuation lines:\n%s", raw)
	}
	got, err := DecodeCommit(raw)
	if err != nil {
		t.Fatalf("DecodeCommit: %v", err)
	}
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("commit round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRootCommitHasNoParentLine(t *testing.T) {
	c := testCommit()
	c.Parents = nil
	payload, err := MarshalCommit(c)
	if err != nil {
		t.Fatalf("MarshalCommit: %v", err)
	}
	if bytes.Contains(payload, []byte("parent ")) {
		t.Errorf("root commit has a parent line:\n%s", payload)
	}
}

func TestSignCommit(t *testing.T) {
	c := testCommit()
	var signed []byte
	err := SignCommit(c, func(payload []byte) (string, error) {
		signed = payload
		return "SIG", nil
	})
	if err != nil {
		t.Fatalf("SignCommit: %v", err)
	}
	unsigned, err := MarshalCommit(testCommit())
	if err != nil {
		t.Fatalf("MarshalCommit: %v", err)
	}
	if !bytes.Equal(signed, unsigned) {
		t.Errorf("signer saw %q, want unsigned payload %q", signed, unsigned)
	}
	if c.GPGSig != "SIG" {
		t.Errorf("GPGSig = %q", c.GPGSig)
	}

	failing := func([]byte) (string, error) { return "", errors.New("no agent") }
	if err := SignCommit(testCommit(), failing); err == nil {
		t.Error("SignCommit should propagate signer errors")
	}
}
