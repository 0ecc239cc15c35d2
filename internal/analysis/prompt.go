// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bytes"
	"text/template"
)

// documentPromptTmpl asks the model to read an uploaded case document, extract
// its identifying fields, simulate the same record as if found online (with at
// most one minor inconsistency, on purpose, so the comparison has something to
// show), and write the analysis report.
var documentPromptTmpl = template.Must(template.New("document").Parse(`أنت خبير في تحليل المستندات القانونية المغربية. قم بتحليل النص التالي من مستند قضائي.

<<<المستند
{{.Text}}
المستند>>>

مهامك هي:
1. **استخراج البيانات من المستند**: استخرج رقم القضية، المحكمة، نوع القضية، وحالة القضية من النص. أضف الأطراف والمراحل الإجرائية إن وجدت.
2. **محاكاة بيانات عبر الإنترنت**: بناءً على البيانات المستخرجة، قم بإنشاء مجموعة بيانات مماثلة كما لو تم العثور عليها عبر الإنترنت. يمكنك إدخال تناقض طفيف واحد (على سبيل المثال، حالة قضية مختلفة قليلاً أو تاريخ جلسة استماع مختلف ضمنيًا) لأغراض المقارنة.
3. **إنشاء تقرير تحليلي**:
   * **ملخص**: اكتب ملخصًا موجزًا للقضية.
   * **التناقضات**: قارن البيانات المستخرجة من المستند مع البيانات المحاكاة عبر الإنترنت وحدد أي تناقضات. إذا لم تجد أيًا، فاذكر ذلك. اذكر أيضًا أي تناقضات داخلية في المستند نفسه.
   * **النقاط الرئيسية**: حدد 3-4 نقاط رئيسية أو رؤى من المستند.
   * **الخطوات التالية الموصى بها**: اقترح 2-3 خطوات تالية قابلة للتنفيذ للمحامي أو العميل.
   * **الجدول الزمني**: قم بإنشاء جدول زمني للأحداث الرئيسية المذكورة في المستند أو التي يمكن استنتاجها منه. أضف حدثًا واحدًا على الأقل من المصدر "{{.Online}}" الذي قمت بمحاكاته.

أرجع النتائج بتنسيق JSON صارم يتوافق مع المخطط المقدم.
`))

// manualPromptTmpl treats the entered case number and court as the reference
// document and asks the model to fabricate plausible type and status values
// for both sides.
var manualPromptTmpl = template.Must(template.New("manual").Parse(`أنت خبير في تحليل القضايا القانونية المغربية. لقد تم تزويدك بتفاصيل قضية تم إدخالها يدويًا.

البيانات المدخلة:
- رقم القضية: {{.NumeroDossier}}
- المحكمة: {{.Tribunal}}

مهامك هي:
1. **استخدام البيانات المدخلة**: اعتبر البيانات المدخلة هي البيانات من "{{.Document}}" المرجعي.
2. **محاكاة بيانات عبر الإنترنت**: بناءً على البيانات المدخلة، قم بإنشاء مجموعة بيانات مماثلة كما لو تم العثور عليها عبر الإنترنت. يمكنك إدخال تناقض طفيف واحد (على سبيل المثال، حالة قضية مختلفة قليلاً أو تاريخ جلسة مختلف) لأغراض المقارنة. قم باختلاق نوع القضية وحالة القضية لكلا المصدرين (المستند والإنترنت) بطريقة منطقية.
{{- if .IncludePrimary}}
   وسّع البحث المحاكى ليشمل المحاكم الابتدائية التابعة لدائرة هذه المحكمة، واذكر ذلك في الملخص.
{{- end}}
3. **إنشاء تقرير تحليلي**:
   * **ملخص**: اكتب ملخصًا موجزًا للقضية بناءً على المعلومات المتاحة.
   * **التناقضات**: قارن البيانات المدخلة مع البيانات المحاكاة عبر الإنترنت وحدد أي تناقضات.
   * **النقاط الرئيسية**: حدد 3-4 نقاط رئيسية أو رؤى يمكن استنتاجها.
   * **الخطوات التالية الموصى بها**: اقترح 2-3 خطوات تالية قابلة للتنفيذ.
   * **الجدول الزمني**: قم بإنشاء جدول زمني بسيط بافتراض تاريخ أو حدثين رئيسيين. يجب أن يأتي حدث واحد على الأقل من المصدر "{{.Online}}" الذي قمت بمحاكاته.

أرجع النتائج بتنسيق JSON صارم يتوافق مع المخطط المقدم. في الكائن JSON النهائي، يجب أن يكون مفتاح "documentData" يحتوي على البيانات الأصلية المقدمة (مع إضافة نوع وحالة القضية المختلقة).
`))

type documentPromptData struct {
	Text   string
	Online string
}

type manualPromptData struct {
	ManualInput
	Document string
	Online   string
}

func renderTemplate(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
