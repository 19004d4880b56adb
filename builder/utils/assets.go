package utils

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// BuildAssets bundles CSS and JS entry points from srcDir into destFs with
// esbuild, returning a map of logical asset paths to their output paths
// (content-hashed when minify is on).
func BuildAssets(srcFs afero.Fs, destFs afero.Fs, srcDir, destDir string, minify bool) (map[string]string, error) {
	assets := make(map[string]string)

	var jsEntryPoints []string
	var cssEntryPoints []string

	err := afero.Walk(srcFs, srcDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".js":
			jsEntryPoints = append(jsEntryPoints, path)
		case ".css":
			cssEntryPoints = append(cssEntryPoints, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for assets: %w", err)
	}

	process := func(entryPoints []string, bundle bool) error {
		if len(entryPoints) == 0 {
			return nil
		}
		buildOptions := api.BuildOptions{
			EntryPoints:       entryPoints,
			Bundle:            bundle,
			Write:             false,
			Outdir:            destDir,
			Outbase:           srcDir,
			MinifyWhitespace:  minify,
			MinifyIdentifiers: minify,
			MinifySyntax:      minify,
			Metafile:          true,
			Loader: map[string]api.Loader{
				".woff2": api.LoaderFile,
				".woff":  api.LoaderFile,
				".svg":   api.LoaderFile,
				".png":   api.LoaderFile,
			},
		}

		if minify {
			buildOptions.EntryNames = "[dir]/[name].[hash]"
			buildOptions.AssetNames = "assets/[name].[hash]"
		}

		result := api.Build(buildOptions)
		if len(result.Errors) > 0 {
			return fmt.Errorf("esbuild failed with %d errors", len(result.Errors))
		}

		for _, outFile := range result.OutputFiles {
			fullPath := filepath.ToSlash(outFile.Path)
			cwd, _ := os.Getwd()
			cwd = filepath.ToSlash(cwd)

			path := strings.TrimPrefix(strings.TrimPrefix(fullPath, cwd), "/")

			if err := destFs.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := afero.WriteFile(destFs, path, outFile.Contents, 0644); err != nil {
				return err
			}
		}

		// Map entry points to hashed outputs via the metafile
		type metafile struct {
			Outputs map[string]struct {
				EntryPoint string `json:"entryPoint"`
			} `json:"outputs"`
		}

		var meta metafile
		if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
			return fmt.Errorf("failed to parse metafile: %w", err)
		}

		for outPath, outInfo := range meta.Outputs {
			if outInfo.EntryPoint == "" {
				continue
			}

			key := strings.TrimPrefix(outInfo.EntryPoint, srcDir)
			if !strings.HasPrefix(key, "/") {
				key = "/" + key
			}
			key = "/static" + key

			val := outPath
			if idx := strings.Index(val, "/static/"); idx >= 0 {
				val = val[idx:]
			} else if !strings.HasPrefix(val, "/") {
				val = "/" + val
			}

			assets[key] = val
		}
		return nil
	}

	// CSS is bundled so @import and font references resolve; JS entry points
	// are kept standalone.
	if err := process(cssEntryPoints, true); err != nil {
		return nil, err
	}
	if err := process(jsEntryPoints, false); err != nil {
		return nil, err
	}

	return assets, nil
}

// CopyStatic mirrors non-bundled static files (images, txt, ico) into destFs.
func CopyStatic(srcFs afero.Fs, destFs afero.Fs, srcDir, dstDir string) error {
	return afero.Walk(srcFs, srcDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".js", ".css":
			return nil // handled by BuildAssets
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)

		data, err := afero.ReadFile(srcFs, path)
		if err != nil {
			return err
		}
		if err := destFs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return afero.WriteFile(destFs, dst, data, 0644)
	})
}
