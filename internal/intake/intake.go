package intake

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/storage"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// PDFContentType is the only accepted content type
const PDFContentType = "application/pdf"

// File is a selected document read fully into memory
type File struct {
	Name        string
	Source      string
	ContentType string
	Data        []byte
}

// Intake resolves user-selected sources through a storage adapter
type Intake struct {
	store  storage.Adapter
	logger logger.Logger
}

// New creates an Intake over store
func New(store storage.Adapter, l logger.Logger) *Intake {
	return &Intake{store: store, logger: l}
}

// Open checks the content type of source and, when it is a PDF, reads it fully.
// Non-PDF sources fail with an invalid file type error before any bytes are read.
func (in *Intake) Open(ctx context.Context, source string) (*File, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, types.NewError(types.KindInvalidFileType, "Please upload a PDF file (.pdf).", nil)
	}

	meta, statErr := in.store.Stat(ctx, source)
	var declared string
	if meta != nil {
		declared = meta.ContentType
	}

	contentType := ContentType(source, declared)
	if contentType != PDFContentType {
		in.logger.Warn(ctx, "Rejected %s: content type %q", source, contentType)
		return nil, types.NewError(types.KindInvalidFileType, "Please upload a PDF file (.pdf).", nil)
	}
	if statErr != nil {
		return nil, types.NewError(types.KindParse, "Failed to read the PDF file.", statErr)
	}

	rc, err := in.store.Get(ctx, source)
	if err != nil {
		return nil, types.NewError(types.KindParse, "Failed to read the PDF file.", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, types.NewError(types.KindParse, "Failed to read the PDF file.", err)
	}
	if len(data) == 0 {
		return nil, types.NewError(types.KindParse, "Failed to read the PDF file.", fmt.Errorf("file reading resulted in empty buffer"))
	}

	in.logger.Debug(ctx, "Read %s (%d bytes)", source, len(data))

	return &File{
		Name:        displayName(source),
		Source:      source,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// List returns the PDF sources under prefix
func (in *Intake) List(ctx context.Context, prefix string) ([]string, error) {
	paths, err := in.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	pdfs := make([]string, 0, len(paths))
	for _, p := range paths {
		if ContentType(p, "") == PDFContentType {
			pdfs = append(pdfs, p)
		}
	}
	return pdfs, nil
}

// ContentType returns the declared media type without parameters, or the type
// derived from the file extension when nothing useful was declared.
func ContentType(source, declared string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			switch mt {
			case "application/octet-stream", "binary/octet-stream":
				// Object stores default to these; fall through to the extension
			default:
				return mt
			}
		}
	}

	ext := strings.ToLower(path.Ext(filepath.ToSlash(source)))
	if ext == "" {
		return ""
	}
	if ext == ".pdf" {
		return PDFContentType
	}
	if mt, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil {
		return mt
	}
	return ""
}

func displayName(source string) string {
	return path.Base(filepath.ToSlash(source))
}
