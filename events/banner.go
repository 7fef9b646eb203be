package events

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"gatherly/logger"
)

var eventpicUploadPath = "./static/eventpic"

// saveBanner stores an optional banner image from the multipart form and
// renders a 300x200 thumbnail next to it. Returns the stored filename, or
// "" when no banner was sent.
func saveBanner(r *http.Request, eventID string) (string, error) {
	file, _, err := r.FormFile("banner")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", errors.New("error retrieving banner file")
	}
	defer file.Close()

	buff := make([]byte, 512)
	if _, err := file.Read(buff); err != nil {
		return "", errors.New("error reading banner file")
	}
	if !strings.HasPrefix(http.DetectContentType(buff), "image/") {
		return "", errors.New("invalid banner file type")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", errors.New("error reading banner file")
	}

	dir := filepath.Join(eventpicUploadPath, "banner")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.New("error saving banner")
	}

	name := eventID + ".jpg"
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", errors.New("error saving banner")
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", errors.New("error saving banner")
	}

	go createThumb(dst, filepath.Join(dir, eventID+"_thumb.jpg"))
	return name, nil
}

func createThumb(src, dst string) {
	img, err := imaging.Open(src)
	if err != nil {
		logger.Sugar.Warnw("thumbnail decode failed", "src", src, "err", err)
		return
	}
	thumb := imaging.Fill(img, 300, 200, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, dst); err != nil {
		logger.Sugar.Warnw("thumbnail save failed", "dst", dst, "err", err)
	}
}
