package seeder

import (
	"regexp"
	"strings"
)

// Category is the business meaning inferred from a column name.
type Category int

const (
	CategoryNone Category = iota
	CategoryAuditUser
	CategoryFullName
	CategoryUsername
	CategoryFirstName
	CategoryLastName
	CategoryEmail
	CategoryPhone
	CategoryPassword
	CategoryDocumentID
	CategoryIPAddress
	CategoryBirthDate
	CategoryAuditDate
	CategoryAge
	CategoryGender
	CategoryPostalCode
	CategoryAddress
	CategoryCity
	CategoryRegion
	CategoryCountry
	CategoryLatitude
	CategoryLongitude
	CategoryCompany
	CategoryJobTitle
	CategoryDepartment
	CategoryStatus
	CategoryActive
	CategoryPercentage
	CategoryAmount
	CategoryQuantity
	CategoryCurrency
	CategoryURL
	CategoryCode
	CategoryTitle
	CategoryDescription
	CategoryName

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryNone:        "none",
	CategoryAuditUser:   "audit user",
	CategoryFullName:    "full name",
	CategoryUsername:    "username",
	CategoryFirstName:   "first name",
	CategoryLastName:    "last name",
	CategoryEmail:       "email",
	CategoryPhone:       "phone",
	CategoryPassword:    "password",
	CategoryDocumentID:  "document id",
	CategoryIPAddress:   "ip address",
	CategoryBirthDate:   "birth date",
	CategoryAuditDate:   "audit date",
	CategoryAge:         "age",
	CategoryGender:      "gender",
	CategoryPostalCode:  "postal code",
	CategoryAddress:     "address",
	CategoryCity:        "city",
	CategoryRegion:      "region",
	CategoryCountry:     "country",
	CategoryLatitude:    "latitude",
	CategoryLongitude:   "longitude",
	CategoryCompany:     "company",
	CategoryJobTitle:    "job title",
	CategoryDepartment:  "department",
	CategoryStatus:      "status",
	CategoryActive:      "active flag",
	CategoryPercentage:  "percentage",
	CategoryAmount:      "monetary amount",
	CategoryQuantity:    "quantity",
	CategoryCurrency:    "currency",
	CategoryURL:         "url",
	CategoryCode:        "code",
	CategoryTitle:       "title",
	CategoryDescription: "description",
	CategoryName:        "name",
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return "none"
	}
	return categoryNames[c]
}

// Rule maps a column-name pattern to a category.
type Rule struct {
	Pattern  *regexp.Regexp
	Category Category
}

// rules is evaluated top to bottom against the lower-cased column name; the
// first match wins, so narrower patterns sit above broader ones.
var rules = []Rule{
	{regexp.MustCompile(`^(created|updated|modified|deleted|approved)_by$|^(usuario|usr|user)_(crea|creacion|modifica|modificacion|registro|actualizacion|alta|baja)$`), CategoryAuditUser},
	{regexp.MustCompile(`full_?name|nombres?_?completos?|nombres?_y_apellidos|apellidos_y_nombres`), CategoryFullName},
	{regexp.MustCompile(`user_?name|nombre_?usuario|^login$|^usuario$|^alias$|nick`), CategoryUsername},
	{regexp.MustCompile(`first_?name|given_?name|primer_nombre|^nombres$`), CategoryFirstName},
	{regexp.MustCompile(`last_?name|surname|family_?name|apellido`), CategoryLastName},
	{regexp.MustCompile(`e_?mail|correo`), CategoryEmail},
	{regexp.MustCompile(`phone|tel[eé]fono|^tel$|^tel_|_tel$|celular|movil|mobile|^fax`), CategoryPhone},
	{regexp.MustCompile(`pass(word)?|contrase[nñ]a|^clave|pwd`), CategoryPassword},
	{regexp.MustCompile(`(^|_)(dni|ruc|cedula|nif|curp|rut|ssn)($|_)|passport|pasaporte|documento|tax_?id|nro_doc|num_doc`), CategoryDocumentID},
	{regexp.MustCompile(`(^|_)ip($|_)|ip_?addr|direccion_ip`), CategoryIPAddress},
	{regexp.MustCompile(`birth|nacimiento|^dob$|fec(ha)?_nac`), CategoryBirthDate},
	{regexp.MustCompile(`^(created|updated|modified|deleted|approved)_(at|on|date)$|^fec(ha)?_|_fecha$|^fecha$|timestamp|_date$|^date_`), CategoryAuditDate},
	{regexp.MustCompile(`^edad$|(^|_)age$|^age_`), CategoryAge},
	{regexp.MustCompile(`gender|g[eé]nero|sexo|^sex$`), CategoryGender},
	{regexp.MustCompile(`postal|zip|(^|_)cp$`), CategoryPostalCode},
	{regexp.MustCompile(`address|direcci[oó]n|domicilio|calle|street`), CategoryAddress},
	{regexp.MustCompile(`city|ciudad|localidad|municipio|distrito|town`), CategoryCity},
	{regexp.MustCompile(`region|provincia|^state$|county|comunidad`), CategoryRegion},
	{regexp.MustCompile(`country|pa[ií]s|nacionalidad|nationality`), CategoryCountry},
	{regexp.MustCompile(`latitud|^lat$`), CategoryLatitude},
	{regexp.MustCompile(`longitude|^longitud$|^lng$|^lon$`), CategoryLongitude},
	{regexp.MustCompile(`company|empresa|compa[nñ][ií]a|razon_social|organi[sz]ation|organizacion|proveedor|supplier|vendor`), CategoryCompany},
	{regexp.MustCompile(`(^|_)job|cargo|puesto|position|occupation|ocupacion|profesion`), CategoryJobTitle},
	{regexp.MustCompile(`department|departamento|(^|_)area($|_)|division|seccion`), CategoryDepartment},
	{regexp.MustCompile(`status|estado|situaci[oó]n|condicion`), CategoryStatus},
	{regexp.MustCompile(`^(is|es|esta|flag|flg)_|activ[oa]?$|^active|enabled|habilitad[oa]|vigente|valid[oa]?$`), CategoryActive},
	{regexp.MustCompile(`percent|porcentaje|pct|ratio|(^|_)tasa|(^|_)rate($|_)|descuento|discount`), CategoryPercentage},
	{regexp.MustCompile(`amount|monto|importe|precio|price|total|cost|salario|salary|sueldo|saldo|balance|pago|payment|(^|_)fee|tarifa|igv|(^|_)tax|impuesto`), CategoryAmount},
	{regexp.MustCompile(`quantity|cantidad|qty|stock|(^|_)count|unidades|units|^cant_|^num_`), CategoryQuantity},
	{regexp.MustCompile(`currency|moneda|divisa`), CategoryCurrency},
	{regexp.MustCompile(`url|website|(^|_)web|link|enlace|sitio`), CategoryURL},
	{regexp.MustCompile(`code|c[oó]digo|^cod_|_cod$|sku|^ref_|referencia|serial|(^|_)serie`), CategoryCode},
	{regexp.MustCompile(`title|t[ií]tulo|asunto|subject|headline`), CategoryTitle},
	{regexp.MustCompile(`descri|(^|_)desc$|detalle|detail|comment|comentario|observacion|(^|_)notes?$|(^|_)nota|summary|resumen|content|contenido|mensaje|message|(^|_)bio$`), CategoryDescription},
	{regexp.MustCompile(`name|nombre|^nom_|_nom$`), CategoryName},
}

// Rules returns the inference rules in evaluation order.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}

// InferCategory maps a column name to a category; CategoryNone means no rule
// matched and the column type decides.
func InferCategory(columnName string) Category {
	name := strings.ToLower(columnName)
	for _, r := range rules {
		if r.Pattern.MatchString(name) {
			return r.Category
		}
	}
	return CategoryNone
}
