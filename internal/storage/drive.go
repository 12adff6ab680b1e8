package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mediascribe/mediascribe/internal/types"
)

// DriveArchiver uploads transcript text to Google Drive as a best-effort
// archive. It is optional: the server runs without it when credentials
// are not configured.
type DriveArchiver struct {
	service    *drive.Service
	folderName string
	folderID   string
}

// NewDriveArchiver builds an archiver from an OAuth credentials file and
// a previously saved token file.
func NewDriveArchiver(ctx context.Context, credentialsFile, tokenFile, folderName string) (*DriveArchiver, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	config, err := google.ConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("load drive token: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	da := &DriveArchiver{service: srv, folderName: folderName}
	if err := da.ensureRootFolder(); err != nil {
		return nil, err
	}

	return da, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Archive uploads the transcript text into a dated folder tree under the
// configured root folder and returns the file's shareable link.
func (da *DriveArchiver) Archive(rec *types.Transcript) (string, error) {
	folderID, err := da.ensureDateFolder(rec.CreatedAt)
	if err != nil {
		return "", err
	}

	name := rec.CreatedAt.Format("20060102_150405") + "_" + rec.ID + ".txt"
	file := &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}

	created, err := da.service.Files.Create(file).
		Media(bytes.NewReader([]byte(rec.Content))).
		Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("upload transcript %s: %w", rec.ID, err)
	}

	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id), nil
}

func (da *DriveArchiver) ensureRootFolder() error {
	id, err := da.findOrCreateFolder(da.folderName, "")
	if err != nil {
		return fmt.Errorf("ensure drive folder %q: %w", da.folderName, err)
	}
	da.folderID = id
	return nil
}

// ensureDateFolder resolves the year/month/day folder chain under the
// root, creating missing levels.
func (da *DriveArchiver) ensureDateFolder(t time.Time) (string, error) {
	parentID := da.folderID
	for _, name := range []string{
		fmt.Sprintf("%d", t.Year()),
		fmt.Sprintf("%02d", t.Month()),
		fmt.Sprintf("%02d", t.Day()),
	} {
		id, err := da.findOrCreateFolder(name, parentID)
		if err != nil {
			return "", err
		}
		parentID = id
	}
	return parentID, nil
}

func (da *DriveArchiver) findOrCreateFolder(name, parentID string) (string, error) {
	r, err := da.service.Files.List().Q(folderQuery(name, parentID)).Spaces("drive").Fields("files(id)").Do()
	if err != nil {
		return "", err
	}
	if len(r.Files) > 0 {
		return r.Files[0].Id, nil
	}

	folder := &drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
	}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}

	created, err := da.service.Files.Create(folder).Fields("id").Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// folderQuery builds the Drive search query for a folder. Single quotes
// in the name are escaped so a configured folder name cannot break the
// query syntax.
func folderQuery(name, parentID string) string {
	escaped := strings.ReplaceAll(name, `'`, `\'`)
	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false", escaped)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}
	return query
}
