// Command augment runs the SSD training augmentation pipeline over a single
// image and writes the augmented variants to disk, with the surviving ground
// truth boxes drawn on top. Useful for eyeballing what the pipeline does to a
// dataset before committing to a training run.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/augment"
	"github.com/CZhihao/ssd-keras/common"
)

func main() {
	var (
		imagePath  string
		labelsPath string
		outputDir  string
		count      int
		seed       int64
	)
	flag.StringVar(&imagePath, "image", "", "Path to the input image (.jpg, .png, .bmp)")
	flag.StringVar(&labelsPath, "labels", "", "Path to a label file: one 'class,xmin,ymin,xmax,ymax' line per box (optional)")
	flag.StringVar(&outputDir, "output-dir", "augmented", "Directory to write augmented images to")
	flag.IntVar(&count, "count", 8, "Number of augmented variants to generate")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	flag.Parse()

	if imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: augment -image <path> [-labels <path>] [-output-dir <dir>] [-count <n>] [-seed <n>]")
		os.Exit(2)
	}

	if err := run(imagePath, labelsPath, outputDir, count, seed); err != nil {
		logrus.WithError(err).Fatal("augmentation failed")
	}
}

func run(imagePath, labelsPath, outputDir string, count int, seed int64) error {
	bgr := gocv.IMRead(imagePath, gocv.IMReadColor)
	if bgr.Empty() {
		return fmt.Errorf("could not read image %s", imagePath)
	}
	defer bgr.Close()

	// The pipeline works in RGB, like the datasets it was built for.
	img := gocv.NewMat()
	defer img.Close()
	gocv.CvtColor(bgr, &img, gocv.ColorBGRToRGB)

	var labels [][]float32
	if labelsPath != "" {
		var err error
		labels, err = readLabels(labelsPath)
		if err != nil {
			return err
		}
	}
	logrus.WithFields(logrus.Fields{
		"image":  imagePath,
		"size":   fmt.Sprintf("%dx%d", img.Cols(), img.Rows()),
		"boxes":  len(labels),
		"count":  count,
		"output": outputDir,
	}).Info("running augmentation")

	aug, err := augment.NewSSDAugmentation(augment.SSDConfig{Seed: seed})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	for i := 0; i < count; i++ {
		out, outLabels, err := aug.Apply(img, labels)
		if err != nil {
			return err
		}
		drawBoxes(&out, outLabels, common.DefaultFormat)

		outBGR := gocv.NewMat()
		gocv.CvtColor(out, &outBGR, gocv.ColorRGBToBGR)
		out.Close()

		name := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.jpg", base, i))
		ok := gocv.IMWrite(name, outBGR)
		outBGR.Close()
		if !ok {
			return fmt.Errorf("could not write %s", name)
		}
		logrus.WithFields(logrus.Fields{"file": name, "boxes": len(outLabels)}).Info("wrote variant")
	}
	return nil
}

// readLabels parses one box per line in 'class,xmin,ymin,xmax,ymax' order.
// Blank lines and lines starting with '#' are skipped.
func readLabels(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels [][]float32
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, fmt.Errorf("%s:%d: expected 5 comma-separated values, got %d", path, lineNo, len(fields))
		}
		row := make([]float32, 5)
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			row[i] = float32(v)
		}
		labels = append(labels, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

func drawBoxes(m *gocv.Mat, labels [][]float32, format common.BoxFormat) {
	green := color.RGBA{0, 255, 0, 0}
	for _, row := range labels {
		rect := image.Rect(
			int(row[format.XMin]), int(row[format.YMin]),
			int(row[format.XMax]), int(row[format.YMax]),
		)
		gocv.Rectangle(m, rect, green, 2)
	}
}
