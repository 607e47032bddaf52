package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eimhee/EpubManager/internal/epub"
	"github.com/eimhee/EpubManager/internal/output"
)

var rootCmd = &cobra.Command{
	Use:   "epubman",
	Short: "Inspect the structure of EPUB files",
	Long: `epubman decodes an EPUB package into its structural model: the
resource manifest, the reading order, the table of contents and the cover,
and prints the requested part of it.`,
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print metadata and a model summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := readBook(args[0])
		if err != nil {
			return err
		}
		md := book.Metadata
		fmt.Printf("Title:      %s\n", md.Title)
		for _, creator := range md.Creators {
			name := creator.Name
			if creator.Role != "" {
				name += " (" + creator.Role + ")"
			}
			fmt.Printf("Creator:    %s\n", name)
		}
		fmt.Printf("Language:   %s\n", md.Language)
		fmt.Printf("Identifier: %s\n", md.Identifier)
		if md.Publisher != "" {
			fmt.Printf("Publisher:  %s\n", md.Publisher)
		}
		fmt.Printf("Resources:  %d\n", book.Resources.Len())
		fmt.Printf("Spine:      %d entries\n", len(book.Spine.References))
		fmt.Printf("TOC:        %d entries\n", book.TableOfContents.Size())
		if book.CoverPage != nil {
			fmt.Printf("Cover page: %s\n", book.CoverPage.Href)
		}
		if book.CoverImage != nil {
			fmt.Printf("Cover img:  %s\n", book.CoverImage.Href)
		}
		return nil
	},
}

var spineCmd = &cobra.Command{
	Use:   "spine FILE",
	Short: "Print the reading order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := readBook(args[0])
		if err != nil {
			return err
		}
		for i, ref := range book.Spine.References {
			marker := " "
			if !ref.Linear {
				marker = "*"
			}
			fmt.Printf("%3d %s %s\n", i+1, marker, ref.Resource.Href)
		}
		return nil
	},
}

var tocCmd = &cobra.Command{
	Use:   "toc FILE",
	Short: "Print the table of contents as a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := readBook(args[0])
		if err != nil {
			return err
		}
		tree := output.NewTOCTree(book.Metadata.Title)
		tree.AddReferences(book.TableOfContents.References)
		fmt.Print(tree.Render())
		return nil
	},
}

var coverCmd = &cobra.Command{
	Use:   "cover FILE",
	Short: "Extract the cover image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := readBook(args[0])
		if err != nil {
			return err
		}
		if book.CoverImage == nil {
			return fmt.Errorf("%s has no cover image", args[0])
		}

		outPath, _ := cmd.Flags().GetString("output")
		maxSize, _ := cmd.Flags().GetInt("max-size")

		data := book.CoverImage.Data
		if maxSize > 0 {
			if data, err = book.CoverThumbnail(maxSize, maxSize); err != nil {
				return err
			}
		}
		if outPath == "" {
			outPath = coverFileName(book, maxSize > 0)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write cover: %w", err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(data))
		return nil
	},
}

// coverFileName derives an output filename from the cover resource.
// Thumbnails are always JPEG regardless of the source format.
func coverFileName(book *epub.Book, thumbnail bool) string {
	href := book.CoverImage.Href
	base := href[strings.LastIndex(href, "/")+1:]
	if !thumbnail {
		return base
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base + "_thumb.jpg"
}

func readBook(path string) (*epub.Book, error) {
	r, err := epub.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadBook()
}

func init() {
	coverCmd.Flags().StringP("output", "o", "", "Output file path (default: cover filename)")
	coverCmd.Flags().Int("max-size", 0, "Scale the cover down to fit this size in pixels (0 = original)")
	rootCmd.AddCommand(infoCmd, spineCmd, tocCmd, coverCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
