package images

import (
	"bytes"
	"context"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder for already-WebP sources

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// WebPTranscoder decodes any registered image format (honoring EXIF
// orientation), optionally downscales it, and encodes lossless WebP.
type WebPTranscoder struct {
	// MaxWidth caps the output width; 0 keeps the source size.
	MaxWidth int
}

func (t WebPTranscoder) Transcode(ctx context.Context, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryCanceled, "transcode canceled").Build()
	}
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.ImageError("decode image").WithCause(err).Build()
	}
	if t.MaxWidth > 0 && img.Bounds().Dx() > t.MaxWidth {
		img = imaging.Resize(img, t.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, errors.ImageError("encode webp").WithCause(err).Build()
	}
	return buf.Bytes(), nil
}
