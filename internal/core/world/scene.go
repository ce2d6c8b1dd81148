package world

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/autolink/internal/core/models"
	"github.com/zeusync/autolink/internal/core/systems/physics"
)

// Scene describes a set of buildables in construction order.
type Scene struct {
	Buildables []BuildableSpec `yaml:"buildables"`
}

type BuildableSpec struct {
	ID        uint64     `yaml:"id"`
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Location  [3]float64 `yaml:"location"`
	Yaw       float64    `yaml:"yaw,omitempty"`
	Bounds    float64    `yaml:"bounds,omitempty"`
	Instanced bool       `yaml:"instanced,omitempty"`
	// Group names the blueprint a buildable was pasted with. Members of a
	// group are constructed together.
	Group string `yaml:"group,omitempty"`
	// Integrant makes the buildable its own fluid integrant.
	Integrant  bool            `yaml:"integrant,omitempty"`
	Integrants []string        `yaml:"integrants,omitempty"`
	Lift       *LiftSpec       `yaml:"lift,omitempty"`
	Connectors []ConnectorSpec `yaml:"connectors"`
}

type LiftSpec struct {
	OpposingClearance [2]float64 `yaml:"opposing_clearance"`
}

type ConnectorSpec struct {
	Family   string     `yaml:"family"`
	Name     string     `yaml:"name"`
	Slot     *int       `yaml:"slot,omitempty"`
	Location [3]float64 `yaml:"location"`
	Normal   [3]float64 `yaml:"normal"`

	// Belt only.
	Direction string  `yaml:"direction,omitempty"`
	Clearance float64 `yaml:"clearance,omitempty"`
	Tier      uint8   `yaml:"tier,omitempty"`

	// Fluid and hyper.
	Type string `yaml:"type,omitempty"`
	// Integrant names the sub-component integrant that lists this fluid
	// connector. Empty means the buildable's own integrant.
	Integrant string `yaml:"integrant,omitempty"`
}

// Placed is a buildable built from a scene together with how it should be
// added to a world.
type Placed struct {
	Buildable *models.Buildable
	Group     string
	Options   []AddOption
}

// LoadScene decodes a YAML scene.
func LoadScene(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := LoadScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build instantiates every buildable in the scene, in order. Nothing is
// added to a world.
func (s *Scene) Build() ([]Placed, error) {
	seen := make(map[uint64]bool, len(s.Buildables))
	out := make([]Placed, 0, len(s.Buildables))
	for i, spec := range s.Buildables {
		if seen[spec.ID] {
			return nil, fmt.Errorf("%w: buildable %d: %w", ErrInvalidScene, spec.ID, ErrDuplicateID)
		}
		seen[spec.ID] = true
		p, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("%w: buildable #%d (%s): %w", ErrInvalidScene, i, spec.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func vec(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }

func (spec BuildableSpec) build() (Placed, error) {
	kind, ok := models.ParseKind(spec.Kind)
	if !ok {
		return Placed{}, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	b := models.NewBuildable(models.EntityID(spec.ID), spec.Name, kind, physics.NewTransform(vec(spec.Location), spec.Yaw))
	if spec.Lift != nil && b.Lift() != nil {
		b.Lift().OpposingClearance = spec.Lift.OpposingClearance
	}

	integrants := make(map[string]*models.FluidIntegrant, len(spec.Integrants))
	if spec.Integrant {
		integrants[""] = b.EnableIntegrant()
	}
	for _, name := range spec.Integrants {
		integrants[name] = models.NewFluidIntegrant(b, name)
	}

	for _, cs := range spec.Connectors {
		if err := cs.attach(b, integrants); err != nil {
			return Placed{}, fmt.Errorf("connector %q: %w", cs.Name, err)
		}
	}

	p := Placed{Buildable: b, Group: spec.Group}
	if spec.Bounds > 0 {
		p.Options = append(p.Options, WithBounds(spec.Bounds))
	}
	if spec.Instanced {
		p.Options = append(p.Options, Instanced())
	}
	return p, nil
}

func (cs ConnectorSpec) placement() models.Placement {
	slot := models.SlotNone
	if cs.Slot != nil {
		slot = models.Slot(*cs.Slot)
	}
	return models.Placement{
		Name:     cs.Name,
		Location: vec(cs.Location),
		Normal:   vec(cs.Normal),
		Slot:     slot,
	}
}

func (cs ConnectorSpec) attach(b *models.Buildable, integrants map[string]*models.FluidIntegrant) error {
	switch strings.ToLower(cs.Family) {
	case "belt":
		dir, err := parseBeltDirection(cs.Direction)
		if err != nil {
			return err
		}
		c := models.NewBeltConnector(b, cs.placement(), dir, cs.Clearance)
		c.SetTier(cs.Tier)
	case "track":
		models.NewTrackConnector(b, cs.placement())
	case "fluid":
		typ, err := parsePipeType(cs.Type)
		if err != nil {
			return err
		}
		c := models.NewFluidConnector(b, cs.placement(), typ)
		fi, ok := integrants[cs.Integrant]
		if !ok && cs.Integrant != "" {
			return fmt.Errorf("%w: %q", ErrUnknownIntegrant, cs.Integrant)
		}
		if fi != nil {
			fi.AddConnector(c)
		}
	case "hyper":
		typ, err := parsePipeType(cs.Type)
		if err != nil {
			return err
		}
		models.NewHyperConnector(b, cs.placement(), typ)
	case "power":
		models.NewPowerConnector(b, cs.placement())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFamily, cs.Family)
	}
	return nil
}

func parseBeltDirection(s string) (models.BeltDirection, error) {
	switch strings.ToLower(s) {
	case "input":
		return models.BeltInput, nil
	case "output":
		return models.BeltOutput, nil
	case "any":
		return models.BeltAny, nil
	case "", "none":
		return models.BeltNone, nil
	default:
		return models.BeltNone, fmt.Errorf("%w: belt direction %q", ErrUnknownRole, s)
	}
}

func parsePipeType(s string) (models.PipeType, error) {
	switch strings.ToLower(s) {
	case "consumer":
		return models.PipeConsumer, nil
	case "producer":
		return models.PipeProducer, nil
	case "", "any":
		return models.PipeAny, nil
	case "attachment":
		return models.PipeAttachment, nil
	case "none":
		return models.PipeNone, nil
	default:
		return models.PipeNone, fmt.Errorf("%w: pipe type %q", ErrUnknownRole, s)
	}
}

// Place adds a scene-built buildable to the world.
func (w *World) Place(p Placed) error {
	return w.Add(p.Buildable, p.Options...)
}
