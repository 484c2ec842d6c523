package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"

	"github.com/ledongthuc/pdf"
)

// decodableFilters are the stream filters the engine can undo
var decodableFilters = map[string]bool{
	"FlateDecode":   true,
	"ASCII85Decode": true,
}

// PageImage represents an image XObject found on a page
type PageImage struct {
	Name             string // XObject name (e.g., "Im1")
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, ...
	BitsPerComponent int
	Filters          []string
	Data             []byte // Decoded pixel data; nil when the filter is unsupported
}

// Decodable reports whether the pixel data was decoded in-process
func (img *PageImage) Decodable() bool {
	return img.Data != nil
}

// Images returns the image XObjects of page n (1-based). Images whose
// filters the engine cannot decode are returned without Data.
func (r *Reader) Images(n int) (images []PageImage, err error) {
	if n < 1 || n > r.PageCount() {
		return nil, fmt.Errorf("page %d: %w", n, ErrPageOutOfRange)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: malformed resources: %v", n, rec)
		}
	}()

	xobjects := r.pdf.Page(n).Resources().Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return nil, nil
	}

	names := xobjects.Keys()
	sort.Strings(names)
	for _, name := range names {
		obj := xobjects.Key(name)
		if obj.Key("Subtype").Name() != "Image" {
			continue
		}
		img, ok := extractImage(name, obj)
		if ok {
			images = append(images, img)
		}
	}
	return images, nil
}

// extractImage reads the properties and, when possible, the pixel data of
// an image stream.
func extractImage(name string, obj pdf.Value) (PageImage, bool) {
	img := PageImage{
		Name:             name,
		Width:            int(obj.Key("Width").Int64()),
		Height:           int(obj.Key("Height").Int64()),
		BitsPerComponent: int(obj.Key("BitsPerComponent").Int64()),
		ColorSpace:       parseColorSpace(obj.Key("ColorSpace")),
		Filters:          filterNames(obj.Key("Filter")),
	}
	if img.Width <= 0 || img.Height <= 0 {
		return img, false
	}
	if img.BitsPerComponent == 0 {
		img.BitsPerComponent = 8
	}
	if obj.Key("ImageMask").Bool() {
		img.ColorSpace = "DeviceGray"
		img.BitsPerComponent = 1
	}

	for _, f := range img.Filters {
		if !decodableFilters[f] {
			return img, true
		}
	}

	data, err := readStream(obj)
	if err == nil {
		img.Data = data
	}
	return img, true
}

func readStream(obj pdf.Value) (data []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("decoding stream: %v", rec)
		}
	}()
	rc := obj.Reader()
	defer rc.Close()
	return io.ReadAll(rc)
}

func filterNames(v pdf.Value) []string {
	switch v.Kind() {
	case pdf.Name:
		return []string{v.Name()}
	case pdf.Array:
		names := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			names = append(names, v.Index(i).Name())
		}
		return names
	}
	return nil
}

// parseColorSpace returns the name of a color space value
func parseColorSpace(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Name:
		return v.Name()
	case pdf.Array:
		if v.Len() == 0 {
			break
		}
		name := v.Index(0).Name()
		switch name {
		case "Indexed":
			return "Indexed"
		case "ICCBased":
			// N is the component count of the embedded profile
			switch v.Index(1).Key("N").Int64() {
			case 3:
				return "DeviceRGB"
			case 4:
				return "DeviceCMYK"
			default:
				return "DeviceGray"
			}
		}
		return name
	}
	return "DeviceGray"
}

// ToPNG converts the decoded pixel data to PNG format
func (img *PageImage) ToPNG() ([]byte, error) {
	if img.Data == nil {
		return nil, fmt.Errorf("image %s: data not decoded (filters %v)", img.Name, img.Filters)
	}

	var goImg image.Image
	var err error

	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		goImg, err = img.toRGBImage()
	case "DeviceCMYK":
		goImg, err = img.toCMYKImage()
	case "Indexed":
		return nil, fmt.Errorf("image %s: indexed color space not supported", img.Name)
	default:
		goImg, err = img.toGrayImage()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// toGrayImage converts 1, 4 or 8 bit grayscale samples to an image.Gray
func (img *PageImage) toGrayImage() (*image.Gray, error) {
	bpc := img.BitsPerComponent
	if bpc != 1 && bpc != 4 && bpc != 8 {
		return nil, fmt.Errorf("unsupported bits per component: %d", bpc)
	}

	bytesPerRow := (img.Width*bpc + 7) / 8
	if len(img.Data) < bytesPerRow*img.Height {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(img.Data), bytesPerRow*img.Height)
	}

	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		row := img.Data[y*bytesPerRow:]
		for x := 0; x < img.Width; x++ {
			var v byte
			switch bpc {
			case 1:
				if (row[x/8]>>(7-uint(x%8)))&1 == 1 {
					v = 255
				}
			case 4:
				nibble := row[x/2] >> 4
				if x%2 == 1 {
					nibble = row[x/2] & 0x0F
				}
				v = nibble * 17
			default:
				v = row[x]
			}
			goImg.Pix[y*goImg.Stride+x] = v
		}
	}
	return goImg, nil
}

// toRGBImage converts 8-bit RGB samples to an image.RGBA
func (img *PageImage) toRGBImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.BitsPerComponent)
	}
	expected := img.Width * img.Height * 3
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient data for RGB image: got %d, expected %d", len(img.Data), expected)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		goImg.Pix[i*4+0] = img.Data[i*3+0]
		goImg.Pix[i*4+1] = img.Data[i*3+1]
		goImg.Pix[i*4+2] = img.Data[i*3+2]
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}

// toCMYKImage converts 8-bit CMYK samples to an image.RGBA
func (img *PageImage) toCMYKImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", img.BitsPerComponent)
	}
	expected := img.Width * img.Height * 4
	if len(img.Data) < expected {
		return nil, fmt.Errorf("insufficient data for CMYK image: got %d, expected %d", len(img.Data), expected)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		r, g, b := color.CMYKToRGB(img.Data[i*4], img.Data[i*4+1], img.Data[i*4+2], img.Data[i*4+3])
		goImg.Pix[i*4+0] = r
		goImg.Pix[i*4+1] = g
		goImg.Pix[i*4+2] = b
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}
