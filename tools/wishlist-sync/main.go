// Command wishlist-sync lists and edits the wishlist of whoever is signed in
// according to a profile. A user token wins over a buyer token.
//
//	wishlist-sync -profile ~/.marketplace.yaml list
//	wishlist-sync add <product-id>
//	wishlist-sync remove <product-id>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	aws_pkg "github.com/yashrajoria/marketplace/pkg/aws"
	"github.com/yashrajoria/marketplace/pkg/identity"
	"github.com/yashrajoria/marketplace/pkg/notify"
	"github.com/yashrajoria/marketplace/pkg/wishlist"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute parses flags, wires the synchronizer and runs one command. Every
// deferred cleanup has run by the time it returns the exit code.
func execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wishlist-sync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	profilePath := fs.String("profile", os.Getenv("WISHLIST_PROFILE"), "YAML profile with base_url and tokens")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}
	defer func() { _ = log.Sync() }()

	profile, err := LoadProfile(*profilePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	notifiers := notify.Multi{notify.NewLogNotifier(log), newPrinter(stderr)}
	if profile.NotifyTopicARN != "" {
		awsCfg, err := aws_pkg.LoadConfig(ctx)
		if err != nil {
			fmt.Fprintln(stderr, "aws config:", err)
			return 2
		}
		sns := notify.NewSNSNotifier(aws_pkg.NewSNSClient(awsCfg), profile.NotifyTopicARN, "wishlist-sync", log)
		defer sns.Wait()
		notifiers = append(notifiers, sns)
	}

	resolver := identity.NewResolver(identity.TokenSessions{
		UserToken:  profile.UserToken,
		BuyerToken: profile.BuyerToken,
	})
	sync := wishlist.New(wishlist.NewHTTPRemote(profile.BaseURL, profile.Timeout), resolver, wishlist.Options{
		Timeout:  profile.Timeout,
		Notifier: notifiers,
		Logger:   log,
	})

	return run(ctx, fs.Args(), sync, stdout)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, sync *wishlist.Synchronizer, out io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(out, "usage: wishlist-sync [-profile file] list | add <id> | remove <id>")
		return 2
	}

	var err error
	switch cmd := args[0]; {
	case cmd == "list" && len(args) == 1:
		err = sync.Fetch(ctx)
	case cmd == "add" && len(args) == 2:
		err = sync.Add(ctx, args[1])
	case cmd == "remove" && len(args) == 2:
		err = sync.Remove(ctx, args[1])
	default:
		fmt.Fprintf(out, "unknown command %q\n", args)
		return 2
	}
	if err != nil {
		return 1
	}

	snap := sync.Snapshot()
	fmt.Fprintf(out, "%s wishlist (%d items)\n", snap.Identity.Role(), len(snap.Items))
	for _, p := range snap.Items {
		fmt.Fprintf(out, "  %-24s %s\n", p.ID, p.Name)
	}
	return 0
}

// printer shows notifications on the terminal.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) Notify(kind, message string) {
	fmt.Fprintf(p.w, "[%s] %s\n", kind, message)
}
