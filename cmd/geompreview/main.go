// Geometry cross-section preview tool — interactive CSG slice viewer.
//
// Usage: go run ./cmd/geompreview
package main

import (
	"flag"
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/heliosmc/keff/camera"
	"github.com/heliosmc/keff/scene"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// sceneKind selects which built-in scene is currently sliced.
type sceneKind int

const (
	sceneSphere sceneKind = iota
	sceneLattice
	sceneSlab
)

func main() {
	extent := flag.Float64("extent", 20.0, "half-width of the sliced region, model units")
	flag.Parse()

	rl.InitWindow(windowWidth, windowHeight, "CSG Cross-Section Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	gridSize := 256
	cellIDs := make([]int, gridSize*gridSize)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	cam := camera.New(previewSize, previewSize, float32(*extent)*2, float32(*extent)*2)

	kind := sceneSphere
	radius := float32(6.0)
	pitch := float32(1.26)
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			built := buildScene(kind, float64(radius), float64(pitch))
			sliceModel(built, float64(*extent), cellIDs, gridSize)
			updateTexture(texture, cellIDs, gridSize)
			needsRegen = false
		}

		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			cam.Pan(-d.X, -d.Y)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1.0 + wheel*0.1)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0}, 0, rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Scene", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Sphere") {
			kind, needsRegen = sceneSphere, true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Lattice") {
			kind, needsRegen = sceneLattice, true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Slab") {
			kind, needsRegen = sceneSlab, true
		}
		panelY += 50

		rl.DrawText("Radius (sphere)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1.0", "15.0", radius, 1.0, 15.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", radius), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRadius != radius {
			radius = newRadius
			needsRegen = kind == sceneSphere
		}
		panelY += 35

		rl.DrawText("Pitch (lattice)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newPitch := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.5", "5.0", pitch, 0.5, 5.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", pitch), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newPitch != pitch {
			pitch = newPitch
			needsRegen = kind == sceneLattice
		}
		panelY += 45

		rl.DrawText("Drag to pan, scroll to zoom", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		rl.EndDrawing()
	}
}

func buildScene(kind sceneKind, radius, pitch float64) *scene.Built {
	switch kind {
	case sceneLattice:
		return scene.ReflectingCubeLattice(pitch)
	case sceneSlab:
		return scene.TwoRegionSlab(radius)
	default:
		return scene.Sphere(radius)
	}
}

// sliceModel samples the model on the z=0 plane over [-extent, extent]^2
// and records each grid point's cell id (-1 for outside the domain).
func sliceModel(built *scene.Built, extent float64, cellIDs []int, gridSize int) {
	step := 2 * extent / float64(gridSize)
	for gy := 0; gy < gridSize; gy++ {
		y := -extent + (float64(gy)+0.5)*step
		for gx := 0; gx < gridSize; gx++ {
			x := -extent + (float64(gx)+0.5)*step
			cix, ok := built.Model.FindCell(mgl64.Vec3{x, y, 0})
			id := -1
			if ok {
				id = int(cix)
			}
			cellIDs[gy*gridSize+gx] = id
		}
	}
}

var palette = []color.RGBA{
	{200, 60, 60, 255},
	{60, 130, 200, 255},
	{80, 180, 90, 255},
	{210, 170, 50, 255},
	{150, 90, 190, 255},
}

func updateTexture(texture rl.Texture2D, cellIDs []int, size int) {
	pixels := make([]color.RGBA, size*size)
	for i, id := range cellIDs {
		if id < 0 {
			pixels[i] = color.RGBA{15, 15, 20, 255}
			continue
		}
		pixels[i] = palette[id%len(palette)]
	}
	rl.UpdateTexture(texture, pixels)
}
