package mcpserver

// IntakeFormatContract describes the canonical YAML intake document format
// that LLM consumers should follow when drafting claim documents for the
// drop folder.
const IntakeFormatContract = `# Aeris Intake Document Contract

Every intake document dropped into the workspace MUST follow this structure.

## Structure

` + "```" + `yaml
claim: CLM-2026-0412            # REQUIRED - claim id, groups items and zones
contamination_types:            # OPTIONAL - echoed into propagation results
  - mould
  - category-3-water

items:                          # OPTIONAL - damaged items to assess
  - id: itm-sofa-01             # REQUIRED - stable id assigned by the tablet
    category: contents          # REQUIRED - structural|flooring|fixtures|contents|specialty
    material: oak
    age_years: 12               # OPTIONAL - omit when unknown
    original_value: 2500
    current_value: 1800
    restoration_cost: 400      # >= 0
    replacement_cost: 2200     # >= 0
    damage_types: [water]       # REQUIRED - at least one entry
    damage_extent: moderate     # REQUIRED - minor|moderate|severe|total
    sentimental_value: high     # OPTIONAL - none|low|medium|high|irreplaceable
    risk_factors:               # OPTIONAL - each none|low|medium|high
      further_damage: low
      health_concerns: none
      structural_impact: none
    restoration_days: 6         # REQUIRED - >= 1
    replacement_days: 21        # REQUIRED - >= 1

zones:                          # OPTIONAL - HVAC zone layout
  - id: zone-upstairs           # REQUIRED - stable id
    name: Upstairs              # REQUIRED
    rooms: [bedroom-1, bedroom-2]
    return_air_location: hall-return   # REQUIRED, must not collide with vent ids
    supply_vents:
      - id: vent-br1            # REQUIRED per vent, unique across the claim
        room_id: bedroom-1
        contaminated: false
    airflow_direction: supply   # OPTIONAL - supply|return|mixed (default supply)
` + "```" + `

## Rules

1. **One document per claim.** Re-dropping an edited file updates the claim's
   records in place; ids are what make re-ingest idempotent.
2. **Ids are mandatory** for every item, zone, and vent.
3. **Vent ids are unique across the whole claim**, and no vent id may equal a
   zone's ` + "`" + `return_air_location` + "`" + `.
4. **File names** end with ` + "`" + `.yaml` + "`" + ` or ` + "`" + `.yml` + "`" + `.
5. **Encoding** is UTF-8.
6. Documents that fail validation are moved to the ` + "`" + `rejected/` + "`" + ` folder
   untouched; fix the file and drop it again.

## Damage photos

- Upload photos via the ` + "`" + `upload_photo` + "`" + ` tool. It returns the serving URL.
- Photos are stored in the shared ` + "`" + `photos/` + "`" + ` directory (flat, no sub-folders).
- Supported formats: png, jpg, jpeg, gif, webp.
`
