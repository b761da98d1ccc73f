package slidejsx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/gabriel-vasile/mimetype"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/slidejsx/schema"
)

const MIMETypeImagePNG = "image/png"

// Image is an inline picture decoded from base64 image data.
type Image struct {
	b        []byte
	mimeType string
	checksum uint32
	pHash    *goimagehash.ImageHash
}

// NewImageFromBase64 decodes base64 image data and sniffs its MIME type.
// Data that is not recognized as an image is treated as PNG.
func NewImageFromBase64(s string) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}
	mt := mimetype.Detect(b)
	mimeType := MIMETypeImagePNG
	if strings.HasPrefix(mt.String(), "image/") {
		mimeType = mt.String()
	}
	return &Image{
		b:        b,
		mimeType: mimeType,
	}, nil
}

func (i *Image) MIMEType() string {
	return i.mimeType
}

func (i *Image) Checksum() uint32 {
	if i == nil {
		return 0
	}
	if i.checksum == 0 {
		i.checksum = crc32.ChecksumIEEE(i.b)
	}
	return i.checksum
}

// PHash returns the perceptual hash of the image.
// Results are shared across renders through the hash cache.
func (i *Image) PHash() (_ *goimagehash.ImageHash, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if i == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if i.pHash != nil {
		return i.pHash, nil
	}
	if h, ok := LoadHashCache(i.Checksum()); ok {
		i.pHash = h
		return h, nil
	}
	img, _, err := image.Decode(bytes.NewReader(i.b))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	pHash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to compute perceptual hash: %w", err)
	}
	StoreHashCache(i.Checksum(), pHash)
	i.pHash = pHash
	return pHash, nil
}

// String returns the image as a data URI.
func (i *Image) String() string {
	if i == nil {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(i.b)
	return fmt.Sprintf("data:%s;base64,%s", i.mimeType, encoded)
}

func (i *Image) Bytes() []byte {
	if i == nil {
		return nil
	}
	return i.b
}

// applyPicture turns the node into an image when the item carries image data.
// It returns the perceptual hash of decodable inline images.
func applyPicture(n *Node, item *schema.SlideItem) string {
	if item.ImageData == nil {
		return ""
	}
	if b64, ok := item.ImageData.String("Base64"); ok {
		n.Kind = KindImage
		n.Style.Set("objectFit", "cover")
		img, err := NewImageFromBase64(b64)
		if err != nil {
			n.Src = "data:" + MIMETypeImagePNG + ";base64," + b64
			return ""
		}
		n.Src = img.String()
		h, err := img.PHash()
		if err != nil {
			return ""
		}
		return h.ToString()
	}
	if path, ok := item.ImageData.String("ImagePath"); ok {
		n.Kind = KindImage
		n.Src = path
		n.Style.Set("objectFit", "cover")
	}
	return ""
}
