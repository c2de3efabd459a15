package app

import "testing"

func TestStorageKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		agentID  uint
		filename string
		want     string
	}{
		{1, "report.pdf", "1_report.pdf"},
		{42, "notes/chapter1.pdf", "42_notes_chapter1.pdf"},
		{7, `..\..\evil.docx`, "7_.._.._evil.docx"},
		{3, "a/b/c.pdf", "3_a_b_c.pdf"},
	}
	for _, tc := range cases {
		if got := StorageKey(tc.agentID, tc.filename); got != tc.want {
			t.Errorf("StorageKey(%d, %q) = %q, want %q", tc.agentID, tc.filename, got, tc.want)
		}
	}
}

func TestAllowedContentTypes(t *testing.T) {
	t.Parallel()

	allowed := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, ct := range allowed {
		if _, ok := allowedContentTypes[ct]; !ok {
			t.Errorf("content type %q unexpectedly rejected", ct)
		}
	}

	rejected := []string{
		"text/plain",
		"image/png",
		"application/msword",
		"application/octet-stream",
		"",
	}
	for _, ct := range rejected {
		if _, ok := allowedContentTypes[ct]; ok {
			t.Errorf("content type %q unexpectedly allowed", ct)
		}
	}
}
