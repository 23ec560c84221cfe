package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"commerce/internal/apiclient"
	"commerce/internal/chatbot"
	"commerce/internal/domain"
	"commerce/internal/format"
	"commerce/internal/listing"
)

func apiFlags(cmd *cobra.Command, baseURL, tokenPath *string) {
	def := os.Getenv("COMMERCE_API")
	if def == "" {
		def = apiclient.DefaultBaseURL
	}
	cmd.Flags().StringVar(baseURL, "api", def, "API base URL")
	cmd.Flags().StringVar(tokenPath, "token-file", apiclient.DefaultTokenPath(), "Where the access token is kept")
}

func newBrowseCmd() *cobra.Command {
	var (
		baseURL, tokenPath string
		st                 listing.State
		dir                string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through products from the API",
		Long: `Shows one page of products, then reads commands from stdin:
  n / p        next or previous page
  <number>     jump to a page
  s <text>     search
  t <tab>      switch tab (keyword, content, review)
  c <name>     filter by category, "c" alone clears it
  o <key> [asc|desc]  sort
  q            quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := apiclient.New(baseURL, apiclient.NewFileStore(tokenPath))
			ctl := listing.NewController[domain.Product]("browse", apiclient.ProductFetcher{Client: client}, st.PageSize)
			ctx := cmd.Context()

			st.SortDir = listing.ParseSortDir(dir)
			ctl.SetFilter(ctx, st.Filter)
			if st.Page > 1 {
				ctl.SetPage(ctx, st.Page)
			}
			out := cmd.OutOrStdout()
			printPage(out, ctl)

			in := bufio.NewScanner(cmd.InOrStdin())
			for in.Scan() {
				if !browseStep(ctx, ctl, strings.TrimSpace(in.Text())) {
					return nil
				}
				printPage(out, ctl)
			}
			return in.Err()
		},
	}
	apiFlags(cmd, &baseURL, &tokenPath)
	cmd.Flags().StringVarP(&st.Query, "query", "q", "", "Search text")
	cmd.Flags().StringVar(&st.Tab, "tab", listing.TabKeyword, "keyword, content or review")
	cmd.Flags().StringVar(&st.Category, "category", "", "Category name")
	cmd.Flags().StringVar(&st.SortKey, "sort", "", "Sort key (price, rating, name, created_at, ...)")
	cmd.Flags().StringVar(&dir, "dir", "desc", "Sort direction")
	cmd.Flags().IntVar(&st.Page, "page", 1, "Page to open")
	cmd.Flags().IntVar(&st.PageSize, "size", 12, "Products per page")
	return cmd
}

// browseStep applies one command line; false means quit.
func browseStep(ctx context.Context, ctl *listing.Controller[domain.Product], line string) bool {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch verb {
	case "q", "quit", "exit":
		return false
	case "n":
		ctl.Next(ctx)
	case "p":
		ctl.Prev(ctx)
	case "s":
		ctl.SetQuery(ctx, arg)
	case "t":
		ctl.SetTab(ctx, arg)
	case "c":
		ctl.SetCategory(ctx, arg)
	case "o":
		key, d, _ := strings.Cut(arg, " ")
		ctl.SetSort(ctx, key, listing.ParseSortDir(d))
	default:
		if n, err := strconv.Atoi(verb); err == nil {
			ctl.SetPage(ctx, n)
		}
	}
	return true
}

func printPage(w io.Writer, ctl *listing.Controller[domain.Product]) {
	if err := ctl.Err(); err != nil {
		fmt.Fprintf(w, "! %v\n", err)
	}
	page := ctl.Current()
	for _, p := range page.Items {
		line := fmt.Sprintf("%-8s %-28s %12s  ★%s", p.ProductNo, p.Name, format.Price(p.Price), format.Rating(p.Rating))
		if p.ReviewBasedScore != nil {
			line += fmt.Sprintf("  리뷰 %.2f (%d)", *p.ReviewBasedScore, p.MatchingReviews)
		}
		fmt.Fprintln(w, line)
	}
	var window []string
	for _, n := range ctl.Window() {
		if n == page.Page {
			window = append(window, fmt.Sprintf("[%d]", n))
		} else {
			window = append(window, strconv.Itoa(n))
		}
	}
	fmt.Fprintf(w, "page %d/%d, %s products  %s\n", page.Page, page.TotalPages, format.Count(int64(page.Total)), strings.Join(window, " "))
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the storefront assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := chatbot.NewConversation()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bot> %s\n", conv.Messages()[0].Content)
			in := bufio.NewScanner(cmd.InOrStdin())
			for in.Scan() {
				text := strings.TrimSpace(in.Text())
				if text == "exit" || text == "quit" {
					break
				}
				if msg, ok := conv.Send(text); ok {
					fmt.Fprintf(out, "bot> %s\n", msg.Content)
				}
			}
			return in.Err()
		},
	}
}

func newLoginCmd() *cobra.Command {
	var baseURL, tokenPath, email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the access token for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := apiclient.New(baseURL, apiclient.NewFileStore(tokenPath))
			if err := client.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", email)
			return nil
		},
	}
	apiFlags(cmd, &baseURL, &tokenPath)
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	var baseURL, tokenPath string
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := apiclient.New(baseURL, apiclient.NewFileStore(tokenPath))
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
	apiFlags(cmd, &baseURL, &tokenPath)
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	var baseURL, tokenPath string
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := apiclient.New(baseURL, apiclient.NewFileStore(tokenPath))
			me, err := client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if me == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), me.Email)
			return nil
		},
	}
	apiFlags(cmd, &baseURL, &tokenPath)
	return cmd
}
