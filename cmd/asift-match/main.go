/*
DESCRIPTION
  asift-match is a demo command-line client for the asift package: it
  matches two image files and reports the surviving correspondences. If
  -max_tilt is unset, matching is performed incrementally; otherwise a
  single shot is run at the given max tilt.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command asift-match is a thin CLI wrapper around package asift.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/asift"
	"github.com/ausocean/asift/asiftcfg"
	"github.com/ausocean/asift/feature"
)

func main() {
	var (
		image1      = flag.String("1", "", "first image file path")
		image2      = flag.String("2", "", "second image file path")
		maxTilt     = flag.Float64("max_tilt", -1, "if set, single-shot match at this max tilt; if unset, incremental match")
		ratio       = flag.Float64("threshold", asiftcfg.DefaultRatio, "ratio-test threshold in [0,1]")
		verbose     = flag.Int("v", int(logging.Info), "log verbosity level")
		orbFeatures = flag.Int("features", asiftcfg.DefaultORBFeatures, "max ORB features per view")
	)
	flag.Parse()

	if *image1 == "" || *image2 == "" {
		fmt.Fprintln(os.Stderr, "asift-match: -1 and -2 image paths are required")
		os.Exit(2)
	}

	log := logging.New(int8(*verbose), os.Stderr, false)

	im1 := gocv.IMRead(*image1, gocv.IMReadGrayScale)
	if im1.Empty() {
		log.Fatal("could not read first image", "path", *image1)
	}
	defer im1.Close()

	im2 := gocv.IMRead(*image2, gocv.IMReadGrayScale)
	if im2.Empty() {
		log.Fatal("could not read second image", "path", *image2)
	}
	defer im2.Close()

	helper, err := asift.New(asiftcfg.Config{
		Logger:      log,
		Ratio:       *ratio,
		MaxTilt:     *maxTilt,
		ORBFeatures: *orbFeatures,
	})
	if err != nil {
		log.Fatal("could not construct helper", "error", err)
	}
	defer helper.Close()

	ctx := context.Background()
	if *maxTilt >= 0 {
		res, err := helper.MatchWithMaxTilt(ctx, im1, im2)
		if err != nil {
			log.Fatal("match_with_max_tilt failed", "error", err)
		}
		report(res.Matches)
		return
	}

	res, err := helper.MatchIncrementingTilt(ctx, im1, im2)
	if err != nil {
		log.Fatal("match_incrementing_tilt failed", "error", err)
	}
	fmt.Printf("stopped at level %d (ceiling reached: %v)\n", res.Level, res.Exhausted)
	report(res.Matches)
}

func report(matches []feature.DMatch) {
	fmt.Printf("%d matches\n", len(matches))
	for _, m := range matches {
		fmt.Printf("%d <-> %d  distance=%.4f\n", m.QueryIdx, m.TrainIdx, m.Distance)
	}
}
