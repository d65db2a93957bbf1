package trackers

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	ts "github.com/samuelfneumann/gomario/timestep"
)

// Frames saves the observations of an experiment as PNG images. Every
// every-th TimeStep of each episode is saved, along with the last
// TimeStep of each episode. Each image is annotated with the episode,
// step number, and reward.
//
// Observations must be (height, width, RGB) tensors of bytes.
type Frames struct {
	dir     string
	every   int
	episode int
	saved   []string
	err     error
}

// NewFrames returns a new Frames tracker saving images into dir, which
// is created if needed
func NewFrames(dir string, every int) (*Frames, error) {
	if every < 1 {
		return nil, fmt.Errorf("newFrames: every %d < 1", every)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newFrames: %w", err)
	}
	return &Frames{dir: dir, every: every}, nil
}

// Track saves the observation of the TimeStep if needed. The first
// error encountered is reported by Save.
func (f *Frames) Track(step ts.TimeStep) {
	if f.err != nil {
		return
	}
	if step.Number%f.every != 0 && !step.Last() {
		return
	}

	name := filepath.Join(f.dir, fmt.Sprintf("episode%04d-step%06d.png",
		f.episode, step.Number))
	if err := f.render(step, name); err != nil {
		f.err = fmt.Errorf("track: %v: %w", name, err)
		return
	}
	f.saved = append(f.saved, name)

	if step.Last() {
		f.episode++
	}
}

// Saved returns the paths of the saved images
func (f *Frames) Saved() []string {
	return f.saved
}

// Save reports the first error encountered while saving images. Images
// are written as they are tracked.
func (f *Frames) Save() error {
	return f.err
}

func (f *Frames) render(step ts.TimeStep, filename string) error {
	if step.Observation == nil {
		return fmt.Errorf("no observation")
	}
	shape := step.Observation.Shape()
	if len(shape) != 3 || shape[2] != 3 {
		return fmt.Errorf("observation shape %v is not (height, width, 3)",
			shape)
	}
	pixels, ok := step.Observation.Data().([]uint8)
	if !ok {
		return fmt.Errorf("observation has type %v, expected uint8",
			step.Observation.Dtype())
	}

	height, width := shape[0], shape[1]
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < height*width; i++ {
		img.Pix[4*i] = pixels[3*i]
		img.Pix[4*i+1] = pixels[3*i+1]
		img.Pix[4*i+2] = pixels[3*i+2]
		img.Pix[4*i+3] = 0xFF
	}

	dc := gg.NewContextForRGBA(img)
	dc.SetColor(color.RGBA{0, 0, 0, 160})
	dc.DrawRectangle(0, 0, float64(width), 16)
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("ep %d  step %d  r %.2f  %v", f.episode,
		step.Number, step.Reward, step.EndType), 4, 12)

	return dc.SavePNG(filename)
}
