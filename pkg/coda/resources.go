package coda

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Doc is a Coda document, the root of every other doc-scoped resource.
type Doc struct {
	resource
}

// Type implements Resource.
func (d *Doc) Type() ResourceType { return TypeDoc }

// Name returns the doc title.
func (d *Doc) Name() string { return d.str("name") }

// BrowserLink returns the URL of the doc in the Coda UI.
func (d *Doc) BrowserLink() string { return d.str("browser_link") }

// Owner returns the email address of the doc owner.
func (d *Doc) Owner() string { return d.str("owner") }

// OwnerName returns the display name of the doc owner.
func (d *Doc) OwnerName() string { return d.str("owner_name") }

// WorkspaceID returns the id of the workspace containing the doc.
func (d *Doc) WorkspaceID() string { return d.str("workspace_id") }

// FolderID returns the id of the folder containing the doc.
func (d *Doc) FolderID() string { return d.str("folder_id") }

// CreatedAt returns the creation timestamp.
func (d *Doc) CreatedAt() (time.Time, error) { return d.timestamp("created_at") }

// UpdatedAt returns the last modification timestamp.
func (d *Doc) UpdatedAt() (time.Time, error) { return d.timestamp("updated_at") }

// SourceDoc returns the doc this one was copied from, or nil.
func (d *Doc) SourceDoc() *SourceDoc {
	obj := d.object("source_doc")
	if obj == nil {
		return nil
	}

	return &SourceDoc{resource{json: obj, client: d.client}}
}

// Sections returns the sections endpoint scoped to this doc.
func (d *Doc) Sections() (SectionsClient, error) {
	if err := d.requireClient(); err != nil {
		return nil, err
	}

	return d.client.Sections(d), nil
}

// Folders returns the folders endpoint scoped to this doc.
func (d *Doc) Folders() (FoldersClient, error) {
	if err := d.requireClient(); err != nil {
		return nil, err
	}

	return d.client.Folders(d), nil
}

// Tables returns the tables endpoint scoped to this doc.
func (d *Doc) Tables() (TablesClient, error) {
	if err := d.requireClient(); err != nil {
		return nil, err
	}

	return d.client.Tables(d), nil
}

// Formulas returns the formulas endpoint scoped to this doc.
func (d *Doc) Formulas() (FormulasClient, error) {
	if err := d.requireClient(); err != nil {
		return nil, err
	}

	return d.client.Formulas(d), nil
}

// Controls returns the controls endpoint scoped to this doc.
func (d *Doc) Controls() (ControlsClient, error) {
	if err := d.requireClient(); err != nil {
		return nil, err
	}

	return d.client.Controls(d), nil
}

// SourceDoc is the light reference a doc keeps to the doc it was copied
// from. It is not a decoded Resource and cannot navigate.
type SourceDoc struct {
	resource
}

// Type returns the discriminator carried by the reference.
func (s *SourceDoc) Type() ResourceType { return ResourceType(s.str("type")) }

// Section is a page of a doc.
type Section struct {
	resource
}

// Type implements Resource.
func (s *Section) Type() ResourceType { return TypeSection }

// Name returns the section title.
func (s *Section) Name() string { return s.str("name") }

// BrowserLink returns the URL of the section in the Coda UI.
func (s *Section) BrowserLink() string { return s.str("browser_link") }

// Parent decodes the embedded parent resource, or returns nil if the section is top level.
func (s *Section) Parent() (Resource, error) { return s.embedded("parent") }

// Folder groups sections inside a doc.
type Folder struct {
	resource
}

// Type implements Resource.
func (f *Folder) Type() ResourceType { return TypeFolder }

// Name returns the folder name.
func (f *Folder) Name() string { return f.str("name") }

// Children decodes the embedded child resources.
func (f *Folder) Children() ([]Resource, error) { return f.embeddedList("children") }

// Table is a table or view inside a doc.
type Table struct {
	resource
}

// Type implements Resource.
func (t *Table) Type() ResourceType { return TypeTable }

// Name returns the table name.
func (t *Table) Name() string { return t.str("name") }

// BrowserLink returns the URL of the table in the Coda UI.
func (t *Table) BrowserLink() string { return t.str("browser_link") }

// TableType returns "table" or "view".
func (t *Table) TableType() string { return t.str("table_type") }

// RowCount returns the row count reported by the detail endpoint.
func (t *Table) RowCount() int { return t.integer("row_count") }

// Parent decodes the section containing the table.
func (t *Table) Parent() (Resource, error) { return t.embedded("parent") }

// Columns returns the columns endpoint scoped to this table.
func (t *Table) Columns() (ColumnsClient, error) {
	if err := t.requireDoc(); err != nil {
		return nil, err
	}

	if err := t.requireClient(); err != nil {
		return nil, err
	}

	return t.client.Columns(t.doc, t), nil
}

// Rows returns the rows endpoint scoped to this table.
func (t *Table) Rows() (RowsClient, error) {
	if err := t.requireDoc(); err != nil {
		return nil, err
	}

	if err := t.requireClient(); err != nil {
		return nil, err
	}

	return t.client.Rows(t.doc, t), nil
}

// Column is a column of a table.
type Column struct {
	resource
}

// Type implements Resource.
func (c *Column) Type() ResourceType { return TypeColumn }

// Name returns the column name.
func (c *Column) Name() string { return c.str("name") }

// Display reports whether this is the display column of its table.
func (c *Column) Display() bool { return c.boolean("display") }

// Calculated reports whether the column is computed by a formula.
func (c *Column) Calculated() bool { return c.boolean("calculated") }

// Formula returns the column formula, if any.
func (c *Column) Formula() string { return c.str("formula") }

// Parent decodes the table the column belongs to.
func (c *Column) Parent() (Resource, error) { return c.embedded("parent") }

// ColumnID implements ColumnRef.
func (c *Column) ColumnID() string { return c.ID() }

// Row is a row of a table.
type Row struct {
	resource
}

// Type implements Resource.
func (r *Row) Type() ResourceType { return TypeRow }

// Name returns the value of the display column.
func (r *Row) Name() string { return r.str("name") }

// Index returns the position of the row in its table.
func (r *Row) Index() int { return r.integer("index") }

// BrowserLink returns the URL of the row in the Coda UI.
func (r *Row) BrowserLink() string { return r.str("browser_link") }

// Values returns the cell values keyed by column id (or name, when listed
// with use_column_names).
func (r *Row) Values() map[string]interface{} {
	values := cloneObject(r.object("values"))
	if values == nil {
		return map[string]interface{}{}
	}

	return values
}

// Value returns a single cell value. A nil or empty column reference finds
// nothing.
func (r *Row) Value(column ColumnRef) (interface{}, bool) {
	id, err := columnID(column)
	if err != nil {
		return nil, false
	}

	value, ok := r.object("values")[id]
	if !ok {
		return nil, false
	}

	return cloneValue(value), true
}

// DecodeValues decodes the cell values into out using "coda" struct tags
// naming the column ids.
func (r *Row) DecodeValues(out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "coda",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("creating row decoder: %w", err)
	}

	if err := decoder.Decode(cloneObject(r.object("values"))); err != nil {
		return fmt.Errorf("decoding row %s: %w", r.ID(), err)
	}

	return nil
}

// CreatedAt returns the creation timestamp.
func (r *Row) CreatedAt() (time.Time, error) { return r.timestamp("created_at") }

// UpdatedAt returns the last modification timestamp.
func (r *Row) UpdatedAt() (time.Time, error) { return r.timestamp("updated_at") }

// Parent decodes the table the row belongs to.
func (r *Row) Parent() (Resource, error) { return r.embedded("parent") }

// Formula is a named formula of a doc.
type Formula struct {
	resource
}

// Type implements Resource.
func (f *Formula) Type() ResourceType { return TypeFormula }

// Name returns the formula name.
func (f *Formula) Name() string { return f.str("name") }

// Value returns the current computed value.
func (f *Formula) Value() interface{} {
	value, _ := f.Field("value")

	return value
}

// Parent decodes the section containing the formula.
func (f *Formula) Parent() (Resource, error) { return f.embedded("parent") }

// Control is an input control (slider, select, button...) of a doc.
type Control struct {
	resource
}

// Type implements Resource.
func (c *Control) Type() ResourceType { return TypeControl }

// Name returns the control name.
func (c *Control) Name() string { return c.str("name") }

// ControlType returns the kind of control, e.g. "slider".
func (c *Control) ControlType() string { return c.str("control_type") }

// Value returns the current control value.
func (c *Control) Value() interface{} {
	value, _ := c.Field("value")

	return value
}

// Parent decodes the section containing the control.
func (c *Control) Parent() (Resource, error) { return c.embedded("parent") }

// User is the account owning the API token.
type User struct {
	resource
}

// Type implements Resource.
func (u *User) Type() ResourceType { return TypeUser }

// Name returns the user display name.
func (u *User) Name() string { return u.str("name") }

// LoginID returns the login email.
func (u *User) LoginID() string { return u.str("login_id") }

// PictureLink returns the avatar URL.
func (u *User) PictureLink() string { return u.str("picture_link") }

// Scoped reports whether the token is restricted to specific docs.
func (u *User) Scoped() bool { return u.boolean("scoped") }

// TokenName returns the name given to the API token.
func (u *User) TokenName() string { return u.str("token_name") }

// WorkspaceID returns the user's workspace.
func (u *User) WorkspaceID() string {
	workspace := u.object("workspace")
	if workspace == nil {
		return ""
	}

	id, _ := workspace["id"].(string)

	return id
}

// APILink is the result of resolving a browser URL.
type APILink struct {
	resource
}

// Type implements Resource.
func (l *APILink) Type() ResourceType { return TypeAPILink }

// BrowserLink returns the browser URL that was resolved.
func (l *APILink) BrowserLink() string { return l.str("browser_link") }

// Resource returns the reference the link resolved to, or nil.
func (l *APILink) Resource() *LinkedResource {
	obj := l.object("resource")
	if obj == nil {
		return nil
	}

	return &LinkedResource{resource{json: obj, client: l.client}}
}

// LinkedResource is the reference inside an APILink. Its Kind is the
// discriminator of the target; fetch the target through the matching
// endpoint to navigate further.
type LinkedResource struct {
	resource
}

// Kind returns the type of the linked resource.
func (l *LinkedResource) Kind() ResourceType { return ResourceType(l.str("type")) }

// Name returns the name of the linked resource, when present.
func (l *LinkedResource) Name() string { return l.str("name") }

// RefDoc builds a navigable doc reference from a known id without fetching it.
func RefDoc(client Client, id string) *Doc {
	doc := &Doc{resource{
		json:   map[string]interface{}{discriminatorKey: string(TypeDoc), "id": id},
		client: client,
	}}
	doc.doc = doc

	return doc
}

// RefTable builds a navigable table reference from a known id without fetching it.
func RefTable(client Client, doc *Doc, id string) *Table {
	return &Table{resource{
		json:   map[string]interface{}{discriminatorKey: string(TypeTable), "id": id},
		client: client,
		doc:    doc,
	}}
}
