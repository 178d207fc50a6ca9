package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"kmapi/internal/model"
	"kmapi/internal/service"
)

func newDocumentsCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Document storage operations",
	}
	cmd.AddCommand(
		newDocumentsListCommand(deps),
		newDocumentsUploadCommand(deps),
		newDocumentsDownloadCommand(deps),
		newDocumentsRemoveCommand(deps),
		newDocumentsLinkCommand(deps),
		newDocumentsTagsCommand(deps),
		newDocumentsMetaCommand(deps),
	)
	return cmd
}

func newDocumentsListCommand(deps commandDeps) *cobra.Command {
	var (
		prefix   string
		pageSize int
		token    string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pageSize < 0 {
				return usageErrorf("documents ls --page-size must not be negative")
			}
			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				var items []model.DocumentInfo
				next := token
				for {
					page, err := svcs.documents.GetDocuments(ctx, prefix, pageSize, next)
					if err != nil {
						return err
					}
					items = append(items, page.Items...)
					next = page.ContinuationToken
					if !all || next == "" {
						break
					}
				}

				if wantJSON(deps) {
					return printJSON(deps.out, model.DocumentPage{Items: items, ContinuationToken: next})
				}
				tw := tabwriter.NewWriter(deps.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tCONTENT TYPE\tLAST MODIFIED")
				for _, it := range items {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", it.Name, it.Size, it.ContentType, it.LastModified.Format("2006-01-02 15:04:05"))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				if next != "" {
					_, err := fmt.Fprintf(deps.out, "next token: %s\n", next)
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list names with this prefix")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Page size (default 25, max 1000)")
	cmd.Flags().StringVar(&token, "token", "", "Continuation token from a previous listing")
	cmd.Flags().BoolVar(&all, "all", false, "Follow continuation tokens until the listing is exhausted")
	return cmd
}

func newDocumentsUploadCommand(deps commandDeps) *cobra.Command {
	var (
		prefix string
		tags   []string
		meta   []string
	)

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]model.Document, 0, len(args))
			for _, p := range args {
				f, err := os.Open(p)
				if err != nil {
					closeDocuments(docs)
					return mapCommandError(err)
				}
				st, err := f.Stat()
				if err != nil {
					f.Close()
					closeDocuments(docs)
					return mapCommandError(err)
				}
				name := filepath.Base(p)
				if prefix = strings.Trim(prefix, "/"); prefix != "" {
					name = path.Join(prefix, name)
				}
				docs = append(docs, model.Document{
					Name:        name,
					Content:     f,
					ContentType: mime.TypeByExtension(filepath.Ext(p)),
					Size:        st.Size(),
					Tags:        parseKeyValuePairs(tags),
					Metadata:    parseKeyValuePairs(meta),
				})
			}
			defer closeDocuments(docs)

			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				res, err := svcs.documents.UploadDocuments(ctx, docs)
				if err != nil {
					return err
				}
				if wantJSON(deps) {
					if err := printJSON(deps.out, res); err != nil {
						return err
					}
				} else {
					for _, n := range res.Uploaded {
						fmt.Fprintf(deps.out, "uploaded %s\n", n)
					}
					for _, n := range res.Failed {
						fmt.Fprintf(deps.out, "failed   %s\n", n)
					}
				}
				if len(res.Failed) > 0 {
					return fmt.Errorf("%d of %d uploads failed", len(res.Failed), len(docs))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Name prefix for the uploaded documents")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag key=value (repeatable)")
	cmd.Flags().StringArrayVar(&meta, "meta", nil, "Metadata key=value (repeatable)")
	return cmd
}

func newDocumentsDownloadCommand(deps commandDeps) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Download a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				rc, _, err := svcs.documents.DownloadDocument(ctx, args[0])
				if err != nil {
					return err
				}
				defer rc.Close()

				var w io.Writer = deps.out
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				_, err = io.Copy(w, rc)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newDocumentsRemoveCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				if err := svcs.documents.DeleteDocument(ctx, args[0]); err != nil {
					return err
				}
				if wantJSON(deps) {
					return printJSON(deps.out, map[string]any{"deleted": args[0]})
				}
				_, err := fmt.Fprintf(deps.out, "deleted %s\n", args[0])
				return err
			})
		},
	}
}

func newDocumentsLinkCommand(deps commandDeps) *cobra.Command {
	var expires time.Duration

	cmd := &cobra.Command{
		Use:   "url NAME",
		Short: "Print a presigned download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				u, err := svcs.documents.GetDocumentLink(ctx, args[0], expires)
				if err != nil {
					return err
				}
				if wantJSON(deps) {
					return printJSON(deps.out, map[string]any{"name": args[0], "url": u})
				}
				_, err = fmt.Fprintln(deps.out, u)
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&expires, "expires", service.DefaultLinkExpiry, "Link lifetime (max 168h)")
	return cmd
}

func newDocumentsTagsCommand(deps commandDeps) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "tags NAME",
		Short: "Show or merge document tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				var (
					tags map[string]string
					err  error
				)
				if len(set) > 0 {
					tags, err = svcs.documents.SetDocumentTags(ctx, args[0], parseKeyValuePairs(set))
				} else {
					tags, err = svcs.documents.GetDocumentTags(ctx, args[0])
				}
				if err != nil {
					return err
				}
				return printMap(deps, tags)
			})
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Tag key=value to add or overwrite; an empty value removes the tag (repeatable)")
	return cmd
}

func newDocumentsMetaCommand(deps commandDeps) *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "meta NAME",
		Short: "Show or merge document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), deps, true, false, func(ctx context.Context, svcs *services) error {
				var (
					md  map[string]string
					err error
				)
				if len(set) > 0 {
					md, err = svcs.documents.SetDocumentMetadata(ctx, args[0], parseKeyValuePairs(set))
				} else {
					md, err = svcs.documents.GetDocumentMetadata(ctx, args[0])
				}
				if err != nil {
					return err
				}
				return printMap(deps, md)
			})
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Metadata key=value to add or overwrite (repeatable)")
	return cmd
}

func printMap(deps commandDeps, m map[string]string) error {
	if m == nil {
		m = map[string]string{}
	}
	if wantJSON(deps) {
		return printJSON(deps.out, m)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(deps.out, "%s=%s\n", k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func closeDocuments(docs []model.Document) {
	for _, d := range docs {
		if c, ok := d.Content.(io.Closer); ok {
			c.Close()
		}
	}
}
