package catalog

func f(v float64) *float64 { return &v }

// Default returns the built-in TileWorldCreator-style tool catalogue used
// when no catalog file is supplied. It covers the standard terrain pipeline:
// generators create base terrain, modifiers transform it.
func Default() *Catalog {
	c := &Catalog{
		Tools: []Tool{
			{
				Name:        "CellularAutomataGenerator",
				Kind:        "generator",
				Description: "Creates organic landmass patterns using a cellular automata algorithm. Ideal for natural-looking islands, continents, or cave systems. Output: binary grid where 1 = land, 0 = empty.",
				Params: []Param{
					{Name: "width", Type: TypeInt, Required: true, Min: f(16), Max: f(256), Description: "Grid width in tiles"},
					{Name: "height", Type: TypeInt, Required: true, Min: f(16), Max: f(256), Description: "Grid height in tiles"},
					{Name: "fill_probability", Type: TypeFloat, Required: true, Min: f(0), Max: f(1), Description: "Initial cell fill probability; around 0.45-0.55 produces connected landmasses"},
					{Name: "iterations", Type: TypeInt, Required: true, Min: f(1), Max: f(10), Description: "CA simulation iterations; more iterations give smoother shapes"},
					{Name: "birth_limit", Type: TypeInt, Required: true, Min: f(0), Max: f(8), Description: "Neighbor count threshold for cell birth; typically 4"},
					{Name: "death_limit", Type: TypeInt, Required: true, Min: f(0), Max: f(8), Description: "Neighbor count threshold for cell survival; typically 3"},
					{Name: "seed", Type: TypeInt, Required: false, Description: "Random seed for reproducibility"},
				},
			},
			{
				Name:        "PerlinNoiseGenerator",
				Kind:        "generator",
				Description: "Creates smooth, continuous terrain heightmaps using Perlin noise. Ideal for natural elevation patterns, rolling hills, and mountain ranges. Output: heightmap with values in [0.0, 1.0].",
				Params: []Param{
					{Name: "width", Type: TypeInt, Required: true, Min: f(16), Max: f(512), Description: "Grid width"},
					{Name: "height", Type: TypeInt, Required: true, Min: f(16), Max: f(512), Description: "Grid height"},
					{Name: "scale", Type: TypeFloat, Required: true, Min: f(0.01), Max: f(1), Description: "Noise scale; lower is smoother"},
					{Name: "octaves", Type: TypeInt, Required: true, Min: f(1), Max: f(8), Description: "Number of detail layers"},
					{Name: "persistence", Type: TypeFloat, Required: true, Min: f(0), Max: f(1), Description: "Amplitude falloff per octave"},
					{Name: "seed", Type: TypeInt, Required: false, Description: "Random seed"},
					{Name: "lacunarity", Type: TypeFloat, Required: false, Description: "Frequency multiplier per octave, default 2.0"},
				},
			},
			{
				Name:        "HeightLayerModifier",
				Kind:        "modifier",
				Description: "Applies discrete height layers to terrain, creating stepped elevation zones. Essential for distinct biomes or gameplay areas.",
				Params: []Param{
					{Name: "layer_count", Type: TypeInt, Required: true, Min: f(1), Max: f(10), Description: "Number of height layers"},
					{Name: "layer_heights", Type: TypeList, Required: true, Description: "Ascending height thresholds in [0.0, 1.0], one per layer"},
					{Name: "blend_factor", Type: TypeFloat, Required: true, Min: f(0), Max: f(0.5), Description: "Transition smoothness between layers"},
				},
			},
			{
				Name:        "ScatterModifier",
				Kind:        "modifier",
				Description: "Scatters objects (rocks, trees, etc.) across terrain based on rules. Use for environmental decoration and detail.",
				Params: []Param{
					{Name: "object_type", Type: TypeString, Required: true, Enum: []string{"rock", "tree", "grass_clump", "bush", "flower"}, Description: "Type of object to scatter"},
					{Name: "density", Type: TypeFloat, Required: true, Min: f(0), Max: f(1), Description: "Scatter density"},
					{Name: "valid_layers", Type: TypeList, Required: true, Description: "0-indexed height layers to scatter on"},
					{Name: "random_rotation", Type: TypeBool, Required: false, Description: "Randomize object rotation, default true"},
					{Name: "scale_variation", Type: TypeFloat, Required: false, Min: f(0), Max: f(1), Description: "Random scale variation"},
					{Name: "min_distance", Type: TypeFloat, Required: false, Description: "Minimum distance between objects"},
				},
			},
			{
				Name:        "GrassDetailModifier",
				Kind:        "modifier",
				Description: "Adds grass and vegetation details to specific terrain layers. Provides fine detail for ground coverage.",
				Params: []Param{
					{Name: "target_layer", Type: TypeInt, Required: true, Min: f(0), Description: "0-indexed height layer to apply grass to"},
					{Name: "coverage", Type: TypeFloat, Required: true, Min: f(0), Max: f(1), Description: "Grass coverage fraction"},
					{Name: "height_variation", Type: TypeFloat, Required: false, Min: f(0), Max: f(1), Description: "Grass blade height randomness, default 0.2"},
					{Name: "color_variation", Type: TypeFloat, Required: false, Min: f(0), Max: f(1), Description: "Color variation amount, default 0.1"},
					{Name: "wind_response", Type: TypeFloat, Required: false, Min: f(0), Max: f(1), Description: "How much grass responds to wind, default 0.5"},
				},
			},
		},
		Notes: "Execution order: generators first (base terrain), then HeightLayerModifier if layers are used, then ScatterModifier / GrassDetailModifier for decoration. Applying modifiers before generators will fail.",
	}
	c.index()
	return c
}

// DefaultExamples returns validated worked trajectories shipped as reference
// demonstrations for the default catalog.
func DefaultExamples() []string {
	return []string{simpleIslandExample, mountainExample}
}

const simpleIslandExample = `### Example: Simple Island Generation

User Request: "Create a basic island"

` + "```json" + `
{
  "trajectory_summary": "Generate a basic island using cellular automata with moderate fill probability to create a single connected landmass with an organic coastline. Parameters are tuned for roughly 45-50% land coverage with smooth edges.",
  "tool_plan": [
    {
      "step": 1,
      "objective": "Create island base shape using cellular automata",
      "tool_name": "CellularAutomataGenerator",
      "arguments": {
        "width": 64,
        "height": 64,
        "fill_probability": 0.45,
        "iterations": 5,
        "birth_limit": 4,
        "death_limit": 3
      },
      "expected_result": "Single connected landmass covering approximately 40-50% of map area with natural-looking coastline"
    }
  ],
  "risks": [
    "Fill probability below 0.4 may create disconnected islands instead of a single landmass",
    "Random seed not specified - results will vary between runs"
  ]
}
` + "```"

const mountainExample = `### Example: Multi-Layer Mountain with Vegetation

User Request: "Create a mountain terrain with three elevation zones and grass on the middle slopes"

` + "```json" + `
{
  "trajectory_summary": "Create a mountain terrain with three elevation zones using Perlin noise for a natural heightmap, height layers for distinct zones (lowlands, midlands, peaks), and grass coverage on the middle elevation layer. The noise scale is kept low for large, smooth mountain features.",
  "tool_plan": [
    {
      "step": 1,
      "objective": "Generate natural elevation heightmap using Perlin noise",
      "tool_name": "PerlinNoiseGenerator",
      "arguments": {
        "width": 128,
        "height": 128,
        "scale": 0.05,
        "octaves": 4,
        "persistence": 0.5
      },
      "expected_result": "Smooth heightmap with natural-looking mountain elevation pattern, values ranging 0.0-1.0"
    },
    {
      "step": 2,
      "objective": "Apply three distinct elevation zones",
      "tool_name": "HeightLayerModifier",
      "arguments": {
        "layer_count": 3,
        "layer_heights": [0.0, 0.4, 0.75],
        "blend_factor": 0.1
      },
      "expected_result": "Three distinct zones: lowlands (0-40% height), midlands (40-75%), peaks (75-100%)"
    },
    {
      "step": 3,
      "objective": "Add grass coverage to the middle elevation zone",
      "tool_name": "GrassDetailModifier",
      "arguments": {
        "target_layer": 1,
        "coverage": 0.6,
        "height_variation": 0.3
      },
      "expected_result": "Natural grass coverage on midland areas (layer 1) with height variation for visual interest"
    }
  ],
  "risks": [
    "Perlin scale significantly affects terrain roughness and may need adjustment",
    "Layer height thresholds should be tuned for the desired zone proportions"
  ]
}
` + "```"
