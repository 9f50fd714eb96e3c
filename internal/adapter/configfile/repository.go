package configfile

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/meetingtool/mt/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatFor(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatTOML
}

type persistedSettings struct {
	Time    int    `toml:"time" yaml:"time"`
	Browser string `toml:"browser" yaml:"browser"`
}

type persistedMeeting struct {
	URL       string   `toml:"url" yaml:"url"`
	Aliases   []string `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Monday    string   `toml:"monday,omitempty" yaml:"monday,omitempty"`
	Tuesday   string   `toml:"tuesday,omitempty" yaml:"tuesday,omitempty"`
	Wednesday string   `toml:"wednesday,omitempty" yaml:"wednesday,omitempty"`
	Thursday  string   `toml:"thursday,omitempty" yaml:"thursday,omitempty"`
	Friday    string   `toml:"friday,omitempty" yaml:"friday,omitempty"`
	Saturday  string   `toml:"saturday,omitempty" yaml:"saturday,omitempty"`
	Sunday    string   `toml:"sunday,omitempty" yaml:"sunday,omitempty"`
}

func (pm *persistedMeeting) dayURLs() map[time.Weekday]*string {
	return map[time.Weekday]*string{
		time.Monday:    &pm.Monday,
		time.Tuesday:   &pm.Tuesday,
		time.Wednesday: &pm.Wednesday,
		time.Thursday:  &pm.Thursday,
		time.Friday:    &pm.Friday,
		time.Saturday:  &pm.Saturday,
		time.Sunday:    &pm.Sunday,
	}
}

// persistedConfig is the on-disk layout: schedule day -> time -> meeting.
type persistedConfig struct {
	Settings *persistedSettings           `toml:"settings" yaml:"settings"`
	Schedule map[string]map[string]string `toml:"schedule" yaml:"schedule"`
	Meetings map[string]persistedMeeting  `toml:"meetings,omitempty" yaml:"meetings,omitempty"`
}

// keyOrder carries the author's key order where the format preserves it.
type keyOrder struct {
	days     map[string][]string
	meetings []string
}

// Repository stores the schedule in a TOML file, or YAML when the path
// ends in .yaml or .yml.
type Repository struct {
	mu       sync.RWMutex
	filePath string
	format   format
}

func New(filePath string) *Repository {
	return &Repository{
		filePath: filePath,
		format:   formatFor(filePath),
	}
}

func (r *Repository) Path() string {
	return r.filePath
}

func (r *Repository) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(r.filePath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "stat %s", r.filePath)
}

func (r *Repository) Load(ctx context.Context) (*domain.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the config file")
	}

	var (
		pc    persistedConfig
		order keyOrder
	)
	switch r.format {
	case formatYAML:
		pc, order, err = decodeYAML(data)
	default:
		pc, order, err = decodeTOML(data)
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse the config file")
	}

	cfg, err := toDomain(pc, order)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse the config file")
	}
	return cfg, nil
}

func (r *Repository) Save(ctx context.Context, cfg domain.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pc := fromDomain(cfg)
	var (
		data []byte
		err  error
	)
	switch r.format {
	case formatYAML:
		data, err = yaml.Marshal(pc)
	default:
		data, err = toml.Marshal(pc)
	}
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	if err := os.WriteFile(r.filePath, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", r.filePath)
	}
	return nil
}

func decodeTOML(data []byte) (persistedConfig, keyOrder, error) {
	var pc persistedConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pc); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			return pc, keyOrder{}, errors.New(de.String())
		}
		return pc, keyOrder{}, err
	}
	return pc, tomlKeyOrder(data), nil
}

// tomlKeyOrder walks the document expressions to recover the order of
// schedule entries and meetings, which decoding into maps loses.
func tomlKeyOrder(data []byte) keyOrder {
	order := keyOrder{days: make(map[string][]string)}
	seenSlot := make(map[string]map[string]bool)
	seenMeeting := make(map[string]bool)
	record := func(path []string) {
		switch {
		case len(path) >= 3 && path[0] == "schedule":
			day, slot := path[1], path[2]
			if seenSlot[day] == nil {
				seenSlot[day] = make(map[string]bool)
			}
			if !seenSlot[day][slot] {
				seenSlot[day][slot] = true
				order.days[day] = append(order.days[day], slot)
			}
		case len(path) >= 2 && path[0] == "meetings":
			if !seenMeeting[path[1]] {
				seenMeeting[path[1]] = true
				order.meetings = append(order.meetings, path[1])
			}
		}
	}

	var walk func(prefix []string, kv *unstable.Node)
	walk = func(prefix []string, kv *unstable.Node) {
		path := append(append([]string{}, prefix...), keyPath(kv.Key())...)
		record(path)
		if v := kv.Value(); v.Kind == unstable.InlineTable {
			for it := v.Children(); it.Next(); {
				walk(path, it.Node())
			}
		}
	}

	var p unstable.Parser
	p.Reset(data)
	var table []string
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyPath(e.Key())
			record(table)
		case unstable.KeyValue:
			walk(table, e)
		}
	}
	return order
}

func keyPath(it unstable.Iterator) []string {
	var path []string
	for it.Next() {
		path = append(path, string(it.Node().Data))
	}
	return path
}

func decodeYAML(data []byte) (persistedConfig, keyOrder, error) {
	var pc persistedConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pc); err != nil {
		if err == io.EOF {
			return pc, keyOrder{}, errors.New("empty document")
		}
		return pc, keyOrder{}, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return pc, keyOrder{}, err
	}
	return pc, yamlKeyOrder(&root), nil
}

// yamlKeyOrder records the order of schedule entries and meetings as written.
func yamlKeyOrder(root *yaml.Node) keyOrder {
	order := keyOrder{days: make(map[string][]string)}
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if sched := mappingValue(doc, "schedule"); sched != nil {
		for i := 0; i+1 < len(sched.Content); i += 2 {
			order.days[sched.Content[i].Value] = mappingKeys(sched.Content[i+1])
		}
	}
	if meetings := mappingValue(doc, "meetings"); meetings != nil {
		order.meetings = mappingKeys(meetings)
	}
	return order
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func mappingKeys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

// orderedKeys returns the keys of m, in hint order when the hint covers
// exactly those keys, otherwise sorted.
func orderedKeys[V any](m map[string]V, hint []string) []string {
	if len(hint) == len(m) {
		ok := true
		for _, k := range hint {
			if _, found := m[k]; !found {
				ok = false
				break
			}
		}
		if ok {
			return hint
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toDomain(pc persistedConfig, order keyOrder) (*domain.Config, error) {
	if pc.Settings == nil {
		return nil, errors.New("missing settings table")
	}
	cfg := &domain.Config{
		Settings: domain.Settings{
			Tolerance: pc.Settings.Time,
			Browser:   pc.Settings.Browser,
		},
		Schedule: make(map[time.Weekday][]domain.Entry),
	}
	if pc.Settings.Time < 0 {
		return nil, errors.Errorf("settings.time must not be negative, got %d", pc.Settings.Time)
	}

	days := make(map[string]time.Weekday, len(domain.Week))
	for _, d := range domain.Week {
		days[domain.DayKey(d)] = d
	}
	for key, slots := range pc.Schedule {
		d, ok := days[key]
		if !ok {
			return nil, errors.Errorf("unknown weekday %q in schedule", key)
		}
		entries := make([]domain.Entry, 0, len(slots))
		for _, raw := range orderedKeys(slots, order.days[key]) {
			entries = append(entries, domain.Entry{Time: raw, Meeting: slots[raw]})
		}
		cfg.Schedule[d] = entries
	}

	for _, name := range orderedKeys(pc.Meetings, order.meetings) {
		pm := pc.Meetings[name]
		m := domain.Meeting{
			Name:    name,
			URL:     pm.URL,
			Aliases: pm.Aliases,
		}
		for d, u := range pm.dayURLs() {
			if *u == "" {
				continue
			}
			if m.DayURLs == nil {
				m.DayURLs = make(map[time.Weekday]string)
			}
			m.DayURLs[d] = *u
		}
		cfg.Meetings = append(cfg.Meetings, m)
	}
	return cfg, nil
}

func fromDomain(cfg domain.Config) persistedConfig {
	pc := persistedConfig{
		Settings: &persistedSettings{
			Time:    cfg.Settings.Tolerance,
			Browser: cfg.Settings.Browser,
		},
		Schedule: make(map[string]map[string]string, len(cfg.Schedule)),
	}
	for d, entries := range cfg.Schedule {
		slots := make(map[string]string, len(entries))
		for _, e := range entries {
			slots[e.Time] = e.Meeting
		}
		pc.Schedule[domain.DayKey(d)] = slots
	}
	if len(cfg.Meetings) > 0 {
		pc.Meetings = make(map[string]persistedMeeting, len(cfg.Meetings))
	}
	for _, m := range cfg.Meetings {
		pm := persistedMeeting{URL: m.URL, Aliases: m.Aliases}
		fields := pm.dayURLs()
		for d, u := range m.DayURLs {
			*fields[d] = u
		}
		pc.Meetings[m.Name] = pm
	}
	return pc
}
