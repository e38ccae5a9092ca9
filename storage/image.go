package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrImageTooLarge = errors.New("image too large")
	ErrNotImage      = errors.New("file is not an image")
)

// Image is an upload that passed ReadImage
type Image struct {
	Data        []byte
	ContentType string
}

// ReadImage buffers at most maxBytes from r and checks the content sniffs as image/*
func ReadImage(r io.Reader, maxBytes int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %s", ErrImageTooLarge, humanize.Bytes(uint64(maxBytes)))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return &Image{Data: data, ContentType: mt.String()}, nil
}

func (i *Image) Reader() io.Reader { return bytes.NewReader(i.Data) }
