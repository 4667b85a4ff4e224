package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rail-studio/internal/player"
)

var (
	flagMeshOut        string
	flagMeshResolution int
)

var meshCmd = &cobra.Command{
	Use:   "mesh <level> <tile>",
	Short: "Dump one tile's geometry buffers as JSON",
	Long: `Generate the polygon mesh for a single tile and print it as JSON:
flat vertex positions, triangle indices and per-vertex colors.

Examples:
  railstudio mesh levels/spiral.adofai 0
  railstudio mesh levels/spiral.adofai 3 --resolution 32 -o tile3.json`,
	Args: cobra.ExactArgs(2),
	Run:  runMesh,
}

func init() {
	meshCmd.Flags().StringVarP(&flagMeshOut, "out", "o", "", "Output file (default: stdout)")
	meshCmd.Flags().IntVar(&flagMeshResolution, "resolution", 0, "Chamfer fan resolution (default: from config)")
}

func runMesh(cmd *cobra.Command, args []string) {
	path := args[0]
	tileIdx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: tile index %q is not a number\n", args[1])
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	p, err := player.Load(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}

	resolution := cfg.Viewer.MeshResolution
	if flagMeshResolution > 0 {
		resolution = flagMeshResolution
	}
	p.SetResolution(resolution)

	m, ok := p.MeshOf(tileIdx)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: tile %d out of range (level has %d tiles)\n", tileIdx, p.Graph().Len())
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(struct {
		Vertices []float64 `json:"vertices"`
		Faces    []int     `json:"faces"`
		Colors   []float64 `json:"colors"`
	}{m.Vertices, m.Faces, m.Colors}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding mesh: %v\n", err)
		os.Exit(1)
	}

	if flagMeshOut == "" {
		fmt.Println(string(encoded))
		return
	}
	if err := os.WriteFile(flagMeshOut, encoded, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", flagMeshOut, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", flagMeshOut)
}
