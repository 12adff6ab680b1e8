package storage

import (
	"strings"
	"testing"
)

func TestFolderQuery(t *testing.T) {
	tests := []struct {
		name     string
		folder   string
		parentID string
		want     string
	}{
		{
			name:   "root folder",
			folder: "Transcripts",
			want:   "name='Transcripts' and mimeType='application/vnd.google-apps.folder' and trashed=false",
		},
		{
			name:     "with parent",
			folder:   "2026",
			parentID: "parent-id",
			want:     "name='2026' and mimeType='application/vnd.google-apps.folder' and trashed=false and 'parent-id' in parents",
		},
		{
			name:   "single quote escaped",
			folder: "Bob's Transcripts",
			want:   `name='Bob\'s Transcripts' and mimeType='application/vnd.google-apps.folder' and trashed=false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := folderQuery(tt.folder, tt.parentID); got != tt.want {
				t.Errorf("folderQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFolderQueryNoUnescapedQuotes(t *testing.T) {
	got := folderQuery("a'b'c", "")

	// Every quote from the name must arrive escaped.
	inner := strings.TrimPrefix(got, "name='")
	if strings.Contains(strings.ReplaceAll(inner, `\'`, ""), "a'b") {
		t.Errorf("unescaped quote survives in query %q", got)
	}
}
