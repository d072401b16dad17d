package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/core/service"
	"github.com/shockbridge/shockbridge/pkg/openshock"

	"go.uber.org/zap"
)

const (
	CONFIG_KEY_CLOUD_TOKEN      = "cloud.token"
	CONFIG_KEY_CLOUD_SHOCKER_ID = "cloud.shocker_id"
	CONFIG_KEY_HUB_MODEL        = "hub.model"
	CONFIG_KEY_HUB_RF_ID        = "hub.rf_id"
	CONFIG_KEY_HUB_PORT         = "hub.port"
)

var (
	TestShock   = domain.CanonicalCommand{Channel: domain.ChannelShock, Intensity: 10, DurationMs: 300}
	TestVibrate = domain.CanonicalCommand{Channel: domain.ChannelVibrate, Intensity: 100, DurationMs: 2000}
	TestSound   = domain.CanonicalCommand{Channel: domain.ChannelSound, Intensity: 10, DurationMs: 300}
)

// Operator is what the console needs from the running bridge.
type Operator interface {
	ToggleShockMode() (bool, error)
	SetOutputRange(min, max *int) (domain.OutputRange, error)
	OutputRange() (domain.OutputRange, error)
	Snapshot() (domain.ChannelSnapshot, error)
	OutputStatus() (domain.OutputStatus, error)
	TestCommand(cmd domain.CanonicalCommand)
	HubCommand(line string) error
}

type command struct {
	usage string
	run   func(c *Console, args []string)
}

// Console reads operator commands line by line.
type Console struct {
	mu       sync.Mutex
	config   config.Config
	operator Operator
	writer   port.ConfigWriter
	out      io.Writer
	commands map[string]command
	logger   *zap.Logger
}

func NewConsole(cfg config.Config, operator Operator, writer port.ConfigWriter, out io.Writer, logger *zap.Logger) *Console {
	c := &Console{
		config:   cfg,
		operator: operator,
		writer:   writer,
		out:      out,
		logger:   logger.With(zap.String("adapter", "console")),
	}
	c.commands = map[string]command{
		"help":        {"show this list", (*Console).help},
		"switch":      {"toggle slider one between vibrate and shock", (*Console).toggle},
		"min":         {"<0-100> set the minimum output intensity", (*Console).setMin},
		"minimum":     {"<0-100> same as min", (*Console).setMin},
		"max":         {"<0-100> set the maximum output intensity", (*Console).setMax},
		"maximum":     {"<0-100> same as max", (*Console).setMax},
		"testrange":   {"<0-100> print the output intensity for an input", (*Console).testRange},
		"dumpconfig":  {"print the current configuration", (*Console).dumpConfig},
		"status":      {"print channel and output state", (*Console).status},
		"token":       {"<str> set the OpenShock API token", (*Console).token},
		"shocker":     {"<id> set the OpenShock shocker id", (*Console).shocker},
		"model":       {"<0-2> set the hub shocker model (0=CaiXianlin, 1=Petrainer, 2=Petrainer998DR)", (*Console).model},
		"rfid":        {"<n> set the hub RF id", (*Console).rfId},
		"hubport":     {"<path|auto|off> set the hub serial port", (*Console).hubPort},
		"hubcmd":      {"<line> send a raw line to the hub", (*Console).hubCmd},
		"testshock":   {"send a test shock (10% for 300ms)", testCommand(TestShock)},
		"testvibrate": {"send a test vibration (100% for 2s)", testCommand(TestVibrate)},
		"testsound":   {"send a test sound (10% for 300ms)", testCommand(TestSound)},
	}
	return c
}

// Run executes lines from in until it is exhausted or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.help(nil)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		c.Execute(scanner.Text())
	}
	return scanner.Err()
}

func (c *Console) Execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd, ok := c.commands[strings.ToLower(fields[0])]
	if !ok {
		c.printf("command not found: %s\n", fields[0])
		return
	}
	c.logger.Debug("console: command", zap.String("command", fields[0]))
	cmd.run(c, fields[1:])
}

func (c *Console) help(_ []string) {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	c.printf("\n# Available commands:\n")
	for _, name := range names {
		c.printf("- %-12s: %s\n", name, c.commands[name].usage)
	}
}

func (c *Console) toggle(_ []string) {
	mode, err := c.operator.ToggleShockMode()
	if err != nil {
		c.printf("could not switch mode: %v\n", err)
		return
	}
	if mode {
		c.printf("slider one now drives SHOCK\n")
	} else {
		c.printf("slider one now drives VIBRATE\n")
	}
}

func (c *Console) setMin(args []string) {
	v, ok := c.intArg(args, "usage: min <0-100>")
	if !ok {
		return
	}
	r, err := c.operator.SetOutputRange(&v, nil)
	if err != nil {
		c.printf("minimum rejected: %v\n", err)
		return
	}
	c.printf("minimum set to %d (range %d-%d)\n", r.Min, r.Min, r.Max)
}

func (c *Console) setMax(args []string) {
	v, ok := c.intArg(args, "usage: max <0-100>")
	if !ok {
		return
	}
	r, err := c.operator.SetOutputRange(nil, &v)
	if err != nil {
		c.printf("maximum rejected: %v\n", err)
		return
	}
	c.printf("maximum set to %d (range %d-%d)\n", r.Max, r.Min, r.Max)
}

func (c *Console) testRange(args []string) {
	v, ok := c.intArg(args, "usage: testrange <0-100>")
	if !ok {
		return
	}
	r, err := c.operator.OutputRange()
	if err != nil {
		c.printf("could not read output range: %v\n", err)
		return
	}
	c.printf("input: %d, output: %d\n", v, service.MapToOutputRange(v, r))
}

func (c *Console) dumpConfig(_ []string) {
	c.mu.Lock()
	cfg := c.config.Redacted()
	c.mu.Unlock()
	if r, err := c.operator.OutputRange(); err == nil {
		cfg.Output.Min, cfg.Output.Max = r.Min, r.Max
	}
	if s, err := c.operator.Snapshot(); err == nil {
		cfg.ShockMode = s.ShockMode
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		c.printf("could not encode config: %v\n", err)
		return
	}
	c.printf("%s\n", data)
}

func (c *Console) status(_ []string) {
	snap, err := c.operator.Snapshot()
	if err != nil {
		c.printf("could not read channels: %v\n", err)
		return
	}
	r, err := c.operator.OutputRange()
	if err != nil {
		c.printf("could not read output range: %v\n", err)
		return
	}
	st, err := c.operator.OutputStatus()
	if err != nil {
		c.printf("could not read output status: %v\n", err)
		return
	}
	c.printf("vibrate=%d shock=%d shockMode=%t range=%d-%d\n", snap.Vibrate, snap.Shock, snap.ShockMode, r.Min, r.Max)
	c.printf("output=%s state=%s connected=%t path=%s\n", st.Transport, st.State, st.Connected, st.Path)
	if st.Error != "" {
		c.printf("output error: %s\n", st.Error)
	}
}

func (c *Console) token(args []string) {
	if len(args) == 0 {
		c.printf("usage: token <str>\n")
		return
	}
	if c.save(CONFIG_KEY_CLOUD_TOKEN, args[0]) {
		c.mu.Lock()
		c.config.Cloud.Token = args[0]
		c.mu.Unlock()
		c.printf("token saved, restart to apply\n")
	}
}

func (c *Console) shocker(args []string) {
	if len(args) == 0 {
		c.printf("usage: shocker <id>\n")
		return
	}
	if c.save(CONFIG_KEY_CLOUD_SHOCKER_ID, args[0]) {
		c.mu.Lock()
		c.config.Cloud.ShockerId = args[0]
		c.mu.Unlock()
		c.printf("shocker id saved: %s\n", args[0])
	}
}

func (c *Console) model(args []string) {
	v, ok := c.intArg(args, "usage: model <0|1|2> (0=CaiXianlin, 1=Petrainer, 2=Petrainer998DR)")
	if !ok {
		return
	}
	if v < 0 || v > 2 {
		c.printf("model must be 0, 1 or 2\n")
		return
	}
	if c.save(CONFIG_KEY_HUB_MODEL, v) {
		c.mu.Lock()
		c.config.Hub.Model = v
		c.mu.Unlock()
		c.printf("shocker model set to %d (%s), restart to apply\n", v, openshock.ModelName(v))
	}
}

func (c *Console) rfId(args []string) {
	v, ok := c.intArg(args, "usage: rfid <number> (e.g. 50685)")
	if !ok {
		return
	}
	if c.save(CONFIG_KEY_HUB_RF_ID, v) {
		c.mu.Lock()
		c.config.Hub.RFId = v
		c.mu.Unlock()
		c.printf("RF id set to %d, restart to apply\n", v)
	}
}

func (c *Console) hubPort(args []string) {
	if len(args) == 0 {
		c.printf("usage: hubport <path|auto|off>\n")
		return
	}
	path := args[0]
	if strings.EqualFold(path, "off") {
		path = ""
	}
	if !c.save(CONFIG_KEY_HUB_PORT, path) {
		return
	}
	c.mu.Lock()
	c.config.Hub.Port = path
	c.mu.Unlock()
	if path == "" {
		c.printf("hub serial disabled, restart to use the cloud API\n")
	} else {
		c.printf("hub serial port set to %s, restart to apply\n", path)
	}
}

func (c *Console) hubCmd(args []string) {
	if len(args) == 0 {
		c.printf("usage: hubcmd <line>\n")
		return
	}
	if err := c.operator.HubCommand(strings.Join(args, " ")); err != nil {
		c.printf("hub command failed: %v\n", err)
	}
}

func testCommand(cmd domain.CanonicalCommand) func(c *Console, args []string) {
	return func(c *Console, _ []string) {
		c.printf("sending test %s\n", cmd)
		c.operator.TestCommand(cmd)
	}
}

func (c *Console) intArg(args []string, usage string) (int, bool) {
	if len(args) == 0 {
		c.printf("%s\n", usage)
		return 0, false
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		c.printf("%q is not a number\n", args[0])
		return 0, false
	}
	return v, true
}

func (c *Console) save(key string, value any) bool {
	if err := c.writer.Save(key, value); err != nil {
		c.logger.Warn("console: could not save config", zap.String("key", key), zap.Error(err))
		c.printf("could not save %s: %v\n", key, err)
		return false
	}
	return true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
