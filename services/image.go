package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"sort"
)

const (
	maxImageDimension = 800
	dominantColorK    = 3
)

// ClothingImageFeatures is what the processing pipeline extracts from an
// uploaded clothing photo. The type hint is a crude aspect-ratio guess,
// kept as a placeholder until a real classifier exists.
type ClothingImageFeatures struct {
	DominantColors []string `json:"dominant_colors"`
	DetectedType   string   `json:"detected_type"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
}

// ProcessClothingImage decodes an uploaded photo, scales it down to fit
// maxImageDimension and re-encodes it as JPEG. Returns the processed
// bytes together with the extracted features.
func ProcessClothingImage(imageBytes []byte) ([]byte, *ClothingImageFeatures, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := scaleToFit(img, maxImageDimension)

	features := &ClothingImageFeatures{
		DominantColors: extractDominantColors(resized, dominantColorK),
		DetectedType:   detectClothingType(img.Bounds()),
		Width:          img.Bounds().Dx(),
		Height:         img.Bounds().Dy(),
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, nil, fmt.Errorf("failed to encode image to jpeg: %w", err)
	}
	return buf.Bytes(), features, nil
}

// scaleToFit downsizes with nearest-neighbour sampling, preserving the
// aspect ratio. Images already within bounds are returned untouched.
func scaleToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(width)
	if height > width {
		scale = float64(maxDim) / float64(height)
	}
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		srcY := bounds.Min.Y + y*height/newHeight
		for x := 0; x < newWidth; x++ {
			srcX := bounds.Min.X + x*width/newWidth
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}

// extractDominantColors buckets pixels into a coarse color histogram and
// returns the k most frequent bucket centers as hex strings.
func extractDominantColors(img image.Image, k int) []string {
	const shift = 5 // 3 bits per channel, 512 buckets

	counts := map[uint32]int{}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			key := (r >> 8 >> shift << 16) | (g >> 8 >> shift << 8) | (b >> 8 >> shift)
			counts[key]++
		}
	}
	if len(counts) == 0 {
		return []string{"#808080"}
	}

	type bucketCount struct {
		key   uint32
		count int
	}
	ranked := make([]bucketCount, 0, len(counts))
	for key, count := range counts {
		ranked = append(ranked, bucketCount{key, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	colors := make([]string, 0, len(ranked))
	for _, bc := range ranked {
		c := bucketCenter(bc.key, shift)
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	return colors
}

func bucketCenter(key uint32, shift uint) color.RGBA {
	half := uint8(1 << (shift - 1))
	return color.RGBA{
		R: uint8(key>>16)<<shift + half,
		G: uint8(key>>8)<<shift + half,
		B: uint8(key)<<shift + half,
		A: 255,
	}
}

// detectClothingType guesses the garment category from the photo's aspect
// ratio, mirroring the upstream placeholder heuristic.
func detectClothingType(bounds image.Rectangle) string {
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 {
		return "casual"
	}
	aspectRatio := float64(height) / float64(width)
	switch {
	case aspectRatio > 2.0:
		return "dress"
	case aspectRatio > 1.5:
		return "shirt"
	case aspectRatio < 0.8:
		return "pants"
	default:
		return "casual"
	}
}
