package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/lightwalk/eval"
)

// ImageRendererSDF2 converts 2D SDFs to images.
type ImageRendererSDF2 struct {
	conv func(f float32) color.Color
	pos  []ms2.Vec
	dist []float32
}

// NewImageRendererSDF2 instances a new [ImageRendererSDF2] to render images from 2D SDFs. A nil float->color conversion
// function results in a simple black-white color scheme where white is the interior of the SDF (negative distance),
// matching the collision color of [MarchRenderer].
func NewImageRendererSDF2(evalBufferSize int, conversion func(float32) color.Color) (*ImageRendererSDF2, error) {
	if evalBufferSize <= 64 {
		return nil, errors.New("too small evaluation buffer size")
	}
	if conversion == nil {
		conversion = func(f float32) color.Color {
			switch {
			case math32.IsNaN(f) || math32.IsInf(f, 0):
				return color.RGBA{R: 255, A: 255}
			case f > 0:
				return color.Black
			default:
				return color.White
			}
		}
	}
	ir := &ImageRendererSDF2{
		conv: conversion,
		pos:  make([]ms2.Vec, evalBufferSize),
		dist: make([]float32, evalBufferSize),
	}
	return ir, nil
}

// Render maps the SDF2 to the input Image and renders it. It uses userData as an argument to all [eval.SDF2.Evaluate] calls.
// Image rows map to decreasing Y so that the image is not mirrored.
func (ir *ImageRendererSDF2) Render(sdf eval.SDF2, img setImage, userData any) error {
	imgBB := img.Bounds()
	dxi := imgBB.Dx()
	dyi := imgBB.Dy()
	if len(ir.dist) < dxi {
		return fmt.Errorf("require evaluation buffer (%d) to be at least of length of image rows (%d)", len(ir.dist), dxi)
	}
	bb := sdf.Bounds()
	dx := (bb.Max.X - bb.Min.X) / float32(dxi)
	dy := (bb.Max.Y - bb.Min.Y) / float32(dyi)
	xmin := bb.Min.X + dx/2 // Offset to center of pixel.
	for j := 0; j < dyi; j++ {
		y := bb.Max.Y - dy/2 - float32(j)*dy
		err := ir.renderRow(sdf, j, y, xmin, dx, imgBB, img, userData)
		if err != nil {
			return err
		}
	}
	tracer().Debugf("rendered %dx%d SDF2 image", dxi, dyi)
	return nil
}

func (ir *ImageRendererSDF2) renderRow(sdf eval.SDF2, row int, y, xmin, dx float32, imgBB image.Rectangle, img setImage, userData any) error {
	dxi := imgBB.Dx()
	for i := 0; i < dxi; i++ {
		x := float32(i)*dx + xmin
		ir.pos[i] = ms2.Vec{X: x, Y: y}
	}
	err := sdf.Evaluate(ir.pos[:dxi], ir.dist[:dxi], userData)
	if err != nil {
		return err
	}
	conv := ir.conv
	for i := 0; i < dxi; i++ {
		img.Set(i+imgBB.Min.X, row+imgBB.Min.Y, conv(ir.dist[i]))
	}
	return nil
}
