package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/cmd"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-pathtracer"
	app.Usage = "render scenes using Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG or OpenEXR image",
			Description: `
Render a built-in scene (see the scenes command) or a YAML scene document.
Flags override the render settings stored in the scene. Interrupting the
render writes the partially rendered image.`,
			ArgsUsage: "[scene name | scene.yaml]",
			Flags:     cmd.RenderFlags,
			Action:    cmd.RenderFrame,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and scene documents",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory searched for YAML scene documents",
				},
			},
			Action: cmd.ListScenes,
		},
		{
			Name:  "compile",
			Usage: "convert OBJ or PLY meshes to compressed binary PLY",
			Description: `
Parse each mesh file and write it next to the input in the selected format.
Compressed binary PLY loads considerably faster than text OBJ.`,
			ArgsUsage: "mesh1.obj mesh2.ply ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "format",
					Value: "ply",
					Usage: "output format: ply or obj",
				},
				cli.StringFlag{
					Name:  "compression",
					Value: "zst",
					Usage: "output compression: zst, gz or none",
				},
			},
			Action: cmd.CompileMeshes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
