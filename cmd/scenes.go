package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// ListScenes prints the built-in scenes and the YAML scene files found in --dir.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	scenes := scene.ListBuiltins()
	files, err := scene.ListSceneFiles(ctx.String("dir"))
	if err != nil {
		return err
	}
	scenes = append(scenes, files...)

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Type", "Description"})
	for _, info := range scenes {
		id := info.ID
		if info.Type == "file" {
			id = info.FilePath
		}
		table.Append([]string{id, info.Name, info.Type, info.Description})
	}
	table.Render()
	return nil
}
