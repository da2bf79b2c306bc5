package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/service"
	"github.com/Layer-norm/minecraft-skin-preprocessing/internal/skin"
	"github.com/Layer-norm/minecraft-skin-preprocessing/pkg/logger"
)

func main() {
	convert := flag.Bool("c", false, "upscale a legacy 64x32 skin to the 64x64 layout")
	swap := flag.Bool("s", false, "swap the first and second layers")
	swapTwice := flag.Bool("ss", false, "swap layers twice, clearing pixels outside valid regions")
	removeLayer := flag.Int("rm", 0, "remove the given layer (1 or 2)")
	target := flag.String("t", "", "convert the skin model to regular or slim (empty flips the detected model)")
	model := flag.Bool("m", false, "convert the skin model (use with -t, or alone to flip)")
	base64Input := flag.String("b", "", "base64 encoded skin image instead of a file path")
	input := flag.String("i", "", "input skin file or folder (a positional argument works too)")
	output := flag.String("o", "", "output folder (defaults next to the input)")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output files")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-c | -s | -ss | -rm N | -m [-t model]] [-b data | path]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log, err := logger.NewConsole()
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	req, ok := buildRequest(*convert, *swap, *swapTwice, *removeLayer, *model, *target)
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	path := *input
	if path == "" {
		path = flag.Arg(0)
	}
	if path == "" && *base64Input == "" {
		flag.Usage()
		os.Exit(2)
	}

	svc := service.NewSkinService(nil, log)
	ctx := context.Background()

	if *base64Input != "" {
		written, err := svc.ProcessBase64(ctx, req, *base64Input, *output)
		if err != nil {
			log.Sugar().Fatalf("failed to process base64 skin: %v", err)
		}
		log.Sugar().Infof("written %s", written)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Sugar().Fatalf("cannot access %s: %v", path, err)
	}

	if info.IsDir() {
		summary, err := svc.ProcessFolder(ctx, req, path, *output, *overwrite)
		if err != nil {
			log.Sugar().Fatalf("failed to process folder %s: %v", path, err)
		}
		if summary.Failed > 0 {
			os.Exit(1)
		}
		return
	}

	written, err := svc.ProcessFile(ctx, req, path, *output, *overwrite)
	if err != nil {
		log.Sugar().Fatalf("failed to process %s: %v", path, err)
	}
	log.Sugar().Infof("written %s", written)
}

// buildRequest maps the mutually exclusive operation flags onto a single
// request. Exactly one operation must be selected.
func buildRequest(convert, swap, swapTwice bool, removeLayer int, model bool, target string) (service.Request, bool) {
	var req service.Request
	selected := 0

	if convert {
		req = service.Request{Op: service.OpUpscale}
		selected++
	}
	if swap {
		req = service.Request{Op: service.OpSwapLayers}
		selected++
	}
	if swapTwice {
		req = service.Request{Op: service.OpSwapLayersTwice}
		selected++
	}
	if removeLayer != 0 {
		req = service.Request{Op: service.OpRemoveLayer, Layer: skin.Layer(removeLayer)}
		selected++
	}
	if model || target != "" {
		req = service.Request{Op: service.OpConvertModel, Target: skin.Model(target)}
		selected++
	}

	return req, selected == 1
}
