// Field preview tool - interactive visualization of field generators and
// the orbital threshold band.
//
// Usage: go run ./cmd/fieldpreview [-image path.png]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/waggle/world"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

// Field kinds selectable in the preview.
const (
	kindCenter = iota
	kindNoise
	kindImage
)

var kindNames = []string{"center", "noise", "image"}

// PreviewParams holds the generator and band parameters.
type PreviewParams struct {
	Kind    int
	Scale   float32
	Octaves int
	Seed    int64
	Outie   float32
	Innie   float32
}

func defaultParams() PreviewParams {
	return PreviewParams{
		Kind:    kindCenter,
		Scale:   16,
		Octaves: 3,
		Seed:    1,
		Outie:   0.7,
		Innie:   0.8,
	}
}

func main() {
	imagePath := flag.String("image", "", "Image to preview as a field (red channel)")
	flag.Parse()

	var imageField *world.Field
	if *imagePath != "" {
		f, err := world.LoadField(*imagePath)
		if err != nil {
			log.Fatalf("failed to load image: %v", err)
		}
		imageField = f
	}

	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	if imageField != nil {
		params.Kind = kindImage
	}

	var field *world.Field
	var texture rl.Texture2D
	var texW, texH int
	pixels := make([]color.RGBA, 0, gridSize*gridSize)
	needsRegen := true
	needsRecolor := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			field = generate(params, imageField)
			if field.Width != texW || field.Height != texH {
				if texW > 0 {
					rl.UnloadTexture(texture)
				}
				img := rl.GenImageColor(field.Width, field.Height, rl.Black)
				texture = rl.LoadTextureFromImage(img)
				rl.UnloadImage(img)
				texW, texH = field.Width, field.Height
			}
			needsRegen = false
			needsRecolor = true
		}
		if needsRecolor {
			pixels = colorize(field, params, pixels)
			rl.UpdateTexture(texture, pixels)
			needsRecolor = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(texW), Height: float32(texH)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		inBand := bandShare(field, params)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Field: %s %dx%d", kindNames[params.Kind], field.Width, field.Height), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Cells in band: %.1f%%", inBand*100), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for k, name := range kindNames {
			if k == kindImage && imageField == nil {
				continue
			}
			label := name
			if k == params.Kind {
				label = "[" + name + "]"
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(k)*95, Y: panelY, Width: 90, Height: 26}, label) && k != params.Kind {
				params.Kind = k
				needsRegen = true
			}
		}
		panelY += 45

		// Scale slider
		rl.DrawText("Scale (cells per noise unit)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"2", "64",
			params.Scale, 2, 64,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.Scale {
			params.Scale = newScale
			needsRegen = needsRegen || params.Kind == kindNoise
		}
		panelY += 35

		// Octaves slider
		rl.DrawText("Octaves", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOctaves := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "6",
			float32(params.Octaves), 1, 6,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Octaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newOctaves) != params.Octaves {
			params.Octaves = int(newOctaves)
			needsRegen = needsRegen || params.Kind == kindNoise
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = needsRegen || params.Kind == kindNoise
		}
		panelY += 35

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		rl.DrawText("Threshold band", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		// Outie threshold slider
		rl.DrawText("Outie threshold", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOutie := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.Outie, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Outie), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newOutie != params.Outie {
			params.Outie = min(newOutie, params.Innie)
			needsRecolor = true
		}
		panelY += 35

		// Innie threshold slider
		rl.DrawText("Innie threshold", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newInnie := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.Innie, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Innie), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newInnie != params.Innie {
			params.Innie = max(newInnie, params.Outie)
			needsRecolor = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = needsRegen || params.Kind == kindNoise
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := configYAML(params, *imagePath)
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
	if texW > 0 {
		rl.UnloadTexture(texture)
	}
}

// generate builds the field selected by params.
func generate(params PreviewParams, imageField *world.Field) *world.Field {
	switch params.Kind {
	case kindNoise:
		return world.NoiseField(gridSize, gridSize, world.NoiseParams{
			Scale:   float64(params.Scale),
			Octaves: params.Octaves,
			Seed:    params.Seed,
		})
	case kindImage:
		if imageField != nil {
			return imageField
		}
	}
	return world.InverseCenterDistanceField(gridSize, gridSize)
}

// colorize maps the field to grayscale, tinting cells inside the band
// green and the two thresholds' neighborhoods blue and yellow.
func colorize(f *world.Field, params PreviewParams, dst []color.RGBA) []color.RGBA {
	n := f.Width * f.Height
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	lo, hi := float64(params.Outie), float64(params.Innie)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := f.Get(x, y)
			g := uint8(v * 255)
			c := color.RGBA{R: g, G: g, B: g, A: 255}
			switch {
			case v >= lo && v <= hi:
				c = color.RGBA{R: g / 3, G: 120 + g/2, B: g / 3, A: 255}
			case v < lo && lo-v < 0.02:
				c = color.RGBA{R: 40, G: 80, B: 220, A: 255}
			case v > hi && v-hi < 0.02:
				c = color.RGBA{R: 230, G: 200, B: 40, A: 255}
			}
			dst[y*f.Width+x] = c
		}
	}
	return dst
}

// bandShare is the fraction of cells inside the band.
func bandShare(f *world.Field, params PreviewParams) float64 {
	var in int
	for _, v := range f.Values {
		if v >= float64(params.Outie) && v <= float64(params.Innie) {
			in++
		}
	}
	return float64(in) / float64(len(f.Values))
}

func configYAML(params PreviewParams, imagePath string) string {
	return fmt.Sprintf(`field:
  kind: %s
  image: %q
  noise_scale: %.1f
  noise_octaves: %d
  noise_seed: %d
orbital:
  outie_threshold: %.2f
  innie_threshold: %.2f`,
		kindNames[params.Kind], imagePath, params.Scale, params.Octaves, params.Seed,
		params.Outie, params.Innie)
}
