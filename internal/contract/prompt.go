package contract

import "fmt"

// Prompt templates per document type. The instruction blocks mirror the
// schemas above field for field; the model is told to answer with the bare
// JSON object and to use null for anything it cannot find.

const promptRules = `REGRAS CRÍTICAS:
1. Sua resposta deve conter APENAS o objeto JSON válido
2. NÃO inclua NENHUM texto antes ou depois do JSON
3. NÃO use formatação markdown como ` + "```json" + `
4. O JSON deve ser 100%% válido, sem vírgulas finais
5. Use aspas duplas para todas as chaves e valores string
6. Se não encontrar uma informação, use null para o campo
7. Mantenha a estrutura exata do schema fornecido`

func anttPrompt(text string) string {
	return fmt.Sprintf(`Analise o texto extraído de um Extrato ou Certificado ANTT.
O texto pode estar desformatado devido ao OCR, com linhas de tabelas misturadas.

`+promptRules+`

Instruções de Extração:
1. CABEÇALHO: Procure por pares Chave/Valor.
   Ex: "RNTRC:" seguido de números. "RAZÃO SOCIAL:" seguido do nome. "CNPJ:" seguido do número.
2. VEÍCULOS: o texto dos veículos costuma aparecer em blocos sequenciais ou misturados.
   Procure por padrões de PLACA (AAA-0000 ou AAA0A00) e RENAVAM (aprox 9-11 dígitos).
   Um bloco de veículo geralmente contém placa, renavam, tipo (Automotor, Implemento),
   categoria/descrição (Caminhão Trator, Semi-Reboque) e situação (Ativo).
   Identifique e liste TODOS os veículos encontrados no texto.
3. ENDEREÇO: procure por Logradouro, Bairro, CEP (xxxxx-xxx) e Cidade/UF.

ESTRUTURA EXATA:
{
  "tipo_documento": "CERTIFICADO_ANTT" | "EXTRATO_ANTT",
  "transportador": {"rntrc": "...", "razao_social_nome": "...", "cpf_cnpj": "...",
    "situacao_rntrc": "...", "categoria": "...", "data_cadastro": "...",
    "data_validade": "...", "data_emissao": "..."},
  "endereco": {"logradouro": "...", "numero": "...", "complemento": "...",
    "bairro": "...", "cidade": "...", "uf": "...", "cep": "..."},
  "resumo_frota": {"total_veiculos": 0, "veiculos_ativos": 0,
    "veiculos_automotores": 0, "veiculos_implementos": 0},
  "responsavel_tecnico": {"nome": "...", "cpf": "..."},
  "veiculos": [{"placa": "...", "renavam": "...", "tipo": "...",
    "tipo_carroceria": "...", "situacao": "...", "propriedade": "..."}]
}

TEXTO DO DOCUMENTO:
%s

Retorne apenas o JSON estruturado:`, text)
}

func cnhPrompt(text string) string {
	return fmt.Sprintf(`Você é um especialista em extração de dados de Carteira Nacional de Habilitação (CNH) brasileira.

TAREFA: Extrair informações estruturadas do texto de uma CNH.

`+promptRules+`

INFORMAÇÕES ESPECÍFICAS DA CNH:
- Nome completo do portador, CPF (xxx.xxx.xxx-xx), RG
- Datas de nascimento, emissão, validade e primeira habilitação (DD/MM/AAAA)
- Categoria habilitada (A, B, C, D, E, AB, AC, AD, AE)
- Número do registro, local de emissão, órgão emissor
- Filiação (pai/mãe), endereço completo, observações/restrições

ESTRUTURA EXATA:
{
  "nome": "...", "cpf": "...", "rg": "...",
  "data_nascimento": "...", "data_emissao": "...", "data_vencimento": "...",
  "categoria": "...", "numero_registro": "...", "local_emissao": "...",
  "endereco": {"logradouro": "...", "bairro": "...", "cidade": "...",
    "estado": "...", "cep": "..."},
  "filiacao": {"pai": "...", "mae": "..."},
  "orgao_emissor": "...", "observacoes": "...", "nacionalidade": "...",
  "primeira_habilitacao": "..."
}

TEXTO DA CNH:
%s

Retorne apenas o JSON estruturado:`, text)
}

func cnpjPrompt(text string) string {
	return fmt.Sprintf(`Você é um especialista em extração de dados de documentos de CNPJ (Cadastro Nacional da Pessoa Jurídica) brasileiros.

TAREFA: Extrair informações estruturadas do texto de um documento de CNPJ.

`+promptRules+`

INFORMAÇÕES ESPECÍFICAS DO CNPJ:
- CNPJ (xx.xxx.xxx/xxxx-xx), razão social, nome fantasia, natureza jurídica
- Atividade econômica principal e secundárias, data de abertura
- Situação cadastral, endereço da sede, capital social, porte
- Quadro de sócios/responsáveis

ESTRUTURA EXATA:
{
  "cnpj": "...", "razao_social": "...", "nome_fantasia": "...",
  "natureza_juridica": "...", "atividade_principal": "...",
  "atividades_secundarias": [{"codigo": "...", "descricao": "..."}],
  "data_abertura": "...", "situacao_cadastral": "...", "data_situacao": "...",
  "endereco": {"logradouro": "...", "numero": "...", "complemento": "...",
    "bairro": "...", "cidade": "...", "estado": "...", "cep": "..."},
  "capital_social": "...", "porte": "...",
  "socios": [{"nome": "...", "cpf_cnpj": "...", "qualificacao": "..."}],
  "telefone": "...", "email": "...", "site": "..."
}

TEXTO DO DOCUMENTO CNPJ:
%s

Retorne apenas o JSON estruturado:`, text)
}

func vehiclePrompt(text string) string {
	return fmt.Sprintf(`Analise o texto extraído de um documento veicular (CRV, CRLV ou Ficha Cadastral de Veículo).

`+promptRules+`

Instruções:
1. Identifique os dados principais do veículo e do proprietário.
2. Normalize datas para AAAA-MM-DD.
3. Extraia informações técnicas detalhadas se disponíveis.

ESTRUTURA EXATA:
{
  "dados_veiculo": {"placa": "...", "placa_anterior": "...", "chassi": "...",
    "renavam": "...", "marca_modelo": "...", "ano_fabricacao": 0,
    "ano_modelo": 0, "cor": "...", "combustivel": "...", "categoria": "...",
    "especie": "...", "tipo": "...", "potencia": "...", "cilindrada": "...",
    "motor": "...", "lotacao": "...", "peso_bruto_total": "..."},
  "situacao": {"exercicio": "...", "restricoes": ["..."], "observacoes": "..."},
  "proprietario": {"nome": "...", "cpf_cnpj": "...", "endereco": "...",
    "cidade": "...", "uf": "..."}
}

TEXTO DO DOCUMENTO:
%s

Retorne apenas o JSON estruturado:`, text)
}

func residencePrompt(text string) string {
	return fmt.Sprintf(`Analise o texto extraído de um comprovante de residência (conta de consumo: energia, água, gás, internet, etc.).

`+promptRules+`

Instruções:
1. Identifique a concessionária/empresa emissora.
2. Identifique o titular e o endereço COMPLETO de instalação.
3. Normalize datas para AAAA-MM-DD e valores numéricos (float, separado por ponto).

ESTRUTURA EXATA:
{
  "tipo_conta": "ENERGIA" | "AGUA" | "TELECOM" | "GAS" | "OUTROS",
  "emissor": {"nome_empresa": "...", "cnpj": "..."},
  "fatura": {"mes_referencia": "MM/AAAA", "vencimento": "AAAA-MM-DD",
    "valor_total": 0.00, "numero_instalacao": "...", "codigo_cliente": "...",
    "codigo_barras": "..."},
  "titular": {"nome": "...", "cpf_cnpj": "..."},
  "endereco_instalacao": {"logradouro": "...", "numero": "...",
    "complemento": "...", "bairro": "...", "cidade": "...", "uf": "..."},
  "leituras": {"leitura_atual": "...", "leitura_anterior": "...", "consumo": "..."}
}

TEXTO DO COMPROVANTE:
%s

Retorne apenas o JSON estruturado:`, text)
}

func genericPrompt(text string) string {
	return fmt.Sprintf(`Você é um especialista em extração de dados de documentos brasileiros.

TAREFA: Extrair informações estruturadas de um documento de tipo desconhecido.

`+promptRules+`

ESTRUTURA EXATA:
{
  "tipo_documento": "...", "nome": "...", "cpf_cnpj": "...",
  "documento_numero": "...", "data_emissao": "...", "endereco": "...",
  "dados_principais": {}, "informacoes_adicionais": "..."
}

TEXTO DO DOCUMENTO:
%s

Retorne apenas o JSON estruturado:`, text)
}
