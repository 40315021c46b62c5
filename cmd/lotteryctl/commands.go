package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ArowuTest/lottery-rounds/pkg/jwt"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

// flags
var (
	urlFlag = &cli.StringFlag{
		Name:    "url",
		Usage:   "lottery server base url",
		Value:   "http://localhost:4000",
		EnvVars: []string{"LOTTERY_URL"},
	}
	secretFlag = &cli.StringFlag{
		Name:     "secret",
		Usage:    "jwt signing secret of the server",
		Required: true,
		EnvVars:  []string{"LOTTERY_JWT_SECRET"},
	}
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "caller address the token is issued to",
		Required: true,
	}
	roleFlag = &cli.StringFlag{
		Name:  "role",
		Usage: "role claim of the token",
		Value: jwt.RolePlayer,
	}
	ttlFlag = &cli.DurationFlag{
		Name:  "ttl",
		Usage: "token lifetime",
		Value: 24 * time.Hour,
	}
	keyFlag = &cli.StringFlag{
		Name:     "key",
		Usage:    "oracle callback key to hash",
		Required: true,
	}
	idFlag = &cli.Uint64Flag{
		Name:     "id",
		Usage:    "round id",
		Required: true,
	}
	afterFlag = &cli.Uint64Flag{
		Name:  "after",
		Usage: "only events with a greater sequence number",
	}
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "maximum number of events",
		Value: 100,
	}
)

// commands
var (
	tokenCmd = &cli.Command{
		Name:   "token",
		Usage:  "Mint a caller token",
		Action: tokenAction,
		Flags:  []cli.Flag{secretFlag, addressFlag, roleFlag, ttlFlag},
	}
	hashKeyCmd = &cli.Command{
		Name:   "hash-key",
		Usage:  "Hash an oracle callback key for LOTTERY_ORACLE_CALLBACKKEYHASH",
		Action: hashKeyAction,
		Flags:  []cli.Flag{keyFlag},
	}
	roundsCmd = &cli.Command{
		Name:   "rounds",
		Usage:  "List all rounds",
		Action: roundsAction,
	}
	roundCmd = &cli.Command{
		Name:   "round",
		Usage:  "Show one round",
		Action: roundAction,
		Flags:  []cli.Flag{idFlag},
	}
	drawCmd = &cli.Command{
		Name:   "draw",
		Usage:  "Trigger the draw of a closed round",
		Action: drawAction,
		Flags:  []cli.Flag{idFlag},
	}
	eventsCmd = &cli.Command{
		Name:   "events",
		Usage:  "Read the event log",
		Action: eventsAction,
		Flags:  []cli.Flag{afterFlag, limitFlag},
	}
)

func tokenAction(ctx *cli.Context) error {
	issuer := jwt.NewTokenIssuer(ctx.String("secret"), ctx.Duration("ttl"))
	token, err := issuer.Issue(ctx.String("address"), ctx.String("role"))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func hashKeyAction(ctx *cli.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(ctx.String("key")), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}

func roundsAction(ctx *cli.Context) error {
	return printResponse(http.MethodGet, fmt.Sprintf("%s/api/v1/rounds", ctx.String("url")))
}

func roundAction(ctx *cli.Context) error {
	return printResponse(http.MethodGet, fmt.Sprintf("%s/api/v1/rounds/%d", ctx.String("url"), ctx.Uint64("id")))
}

func drawAction(ctx *cli.Context) error {
	return printResponse(http.MethodPost, fmt.Sprintf("%s/api/v1/rounds/%d/draw", ctx.String("url"), ctx.Uint64("id")))
}

func eventsAction(ctx *cli.Context) error {
	url := fmt.Sprintf("%s/api/v1/events?after=%d&limit=%d", ctx.String("url"), ctx.Uint64("after"), ctx.Int("limit"))
	return printResponse(http.MethodGet, url)
}

func printResponse(method, url string) error {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: %s", resp.Status, url, bytes.TrimSpace(body))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
