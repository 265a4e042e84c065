package main

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/spf13/cobra"

	"github.com/phanxgames/planview"
	"github.com/phanxgames/planview/ebitenview"
)

var (
	markersFile   string
	planImage     string
	scriptFile    string
	screenshotDir string
	width         int
	height        int
	hideHUD       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the plan viewer window",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := planview.New(cfg)
		if err != nil {
			return err
		}
		eng.SetLogger(log)
		eng.SetDebugMode(debugMode)

		if markersFile != "" {
			n, err := loadMarkers(markersFile, eng.Markers())
			if err != nil {
				return err
			}
			log.Info("markers loaded", "path", markersFile, "count", n)
		}

		rc := ebitenview.RunConfig{
			Title:         "planview",
			Width:         width,
			Height:        height,
			ShowHUD:       !hideHUD,
			ScreenshotDir: screenshotDir,
			Logger:        log,
		}
		if planImage != "" {
			img, _, err := ebitenutil.NewImageFromFile(planImage)
			if err != nil {
				return fmt.Errorf("load plan image: %w", err)
			}
			rc.Plan = img
		}
		if scriptFile != "" {
			data, err := os.ReadFile(scriptFile)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			r, err := planview.LoadScript(data)
			if err != nil {
				return err
			}
			rc.Script = r
			rc.ExitOnScriptDone = true
		}

		if err := ebitenview.Run(eng, rc); err != nil {
			return err
		}
		st := eng.Stats()
		log.Debug("session stats", "events", st.Events, "ignored", st.Ignored, "renders", st.Renders,
			"transitions", st.Transitions, "illegal", st.Illegal)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&markersFile, "markers", "", "YAML file with the marker list")
	runCmd.Flags().StringVar(&planImage, "plan", "", "PNG or JPEG backdrop for the plan")
	runCmd.Flags().StringVar(&scriptFile, "script", "", "JSON session script to replay, then exit")
	runCmd.Flags().StringVar(&screenshotDir, "screenshots", "screenshots", "directory for script snapshot PNGs")
	runCmd.Flags().IntVar(&width, "width", 575, "window width")
	runCmd.Flags().IntVar(&height, "height", 680, "window height")
	runCmd.Flags().BoolVar(&hideHUD, "no-hud", false, "hide the zoom and FPS overlay")
	rootCmd.AddCommand(runCmd)
}
